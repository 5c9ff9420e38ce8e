package domain

import (
	"errors"
	"fmt"
	"io"
)

// Perishable is a product with an expiry date.
type Perishable struct {
	Product
	expiry Date
}

// NewPerishable builds a populated perishable product. The expiry must be set.
func NewPerishable(sku, name, unit string, onHand int, taxed bool, price float64, needed int, expiry Date) (*Perishable, error) {
	base, err := NewProduct(sku, name, unit, onHand, taxed, price, needed)
	if err != nil {
		return nil, err
	}
	if expiry.IsEmpty() {
		return nil, fmt.Errorf("%w: missing expiry date", ErrInvalidProduct)
	}

	base.kind = TypePerishable
	return &Perishable{Product: *base, expiry: expiry}, nil
}

func (p *Perishable) Expiry() Date {
	return p.expiry
}

func (p *Perishable) setEmpty() {
	p.Product.setEmpty()
	p.expiry = Date{}
}

func (p *Perishable) IsEmpty() bool {
	return p.Product.IsEmpty() && p.expiry.IsEmpty()
}

// Store writes the product record followed by ",YYYY/MM/DD".
func (p *Perishable) Store(w io.Writer, newline bool) error {
	if p.Product.IsEmpty() || p.expiry.IsEmpty() {
		return ErrNotStorable
	}
	if err := p.storeFields(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, ",%s", p.expiry)
	if err == nil && newline {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// Load reads the product fields and the trailing expiry date. A reader that has
// already failed empties the record without reading anything.
func (p *Perishable) Load(r *FieldReader) error {
	if r.Failed() {
		p.setEmpty()
		return r.Err()
	}
	if err := p.Product.load(r, true); err != nil {
		p.expiry = Date{}
		return err
	}

	d, err := ParseDate(r)
	if err == nil && !r.endOfRecord() {
		err = ErrDateParse
	}
	if err != nil {
		p.setEmpty()
		err = fmt.Errorf("%w: expiry: %w", ErrMalformedRecord, err)
		r.Fail(err)
		return err
	}
	p.expiry = d
	return nil
}

// Read parses the product entry followed by a labelled expiry date. A bad date
// keeps the product fields, leaves the expiry empty and attaches the date message.
func (p *Perishable) Read(r *FieldReader) error {
	if err := p.Product.Read(r); err != nil {
		p.expiry = Date{}
		return err
	}

	r.skipLabel()
	d, err := ParseDate(r)
	if err != nil {
		var de DateError
		if !errors.As(err, &de) {
			de = ErrDateParse
		}
		p.expiry = Date{}
		p.state.SetMessage(de.Error())
		r.Fail(de)
		return de
	}

	p.expiry = d
	r.skipLineEnd()
	return nil
}

// RenderTabular writes the product row with the expiry date appended.
func (p *Perishable) RenderTabular(w io.Writer) error {
	if !p.state.IsClear() {
		_, err := p.state.WriteTo(w)
		return err
	}
	if err := p.Product.RenderTabular(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, p.expiry.String())
	return err
}

// RenderVerbose writes the product block and an "Expiry date:" line.
func (p *Perishable) RenderVerbose(w io.Writer) error {
	if !p.state.IsClear() {
		_, err := p.state.WriteTo(w)
		return err
	}
	if err := p.renderVerbose(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n Expiry date: %s", p.expiry)
	return err
}
