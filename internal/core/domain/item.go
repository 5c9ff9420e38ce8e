// Package domain holds the catalog records and their text codecs.
package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrUnknownType = errors.New("unknown record type")

// Item is what the catalog knows about a record, whichever kind it is. Only
// *Product and *Perishable implement it.
type Item interface {
	// Store writes the machine record line.
	Store(w io.Writer, newline bool) error
	// Load reads a machine record whose type tag was already consumed.
	Load(r *FieldReader) error
	// Read parses a labelled interactive entry.
	Read(r *FieldReader) error
	RenderTabular(w io.Writer) error
	RenderVerbose(w io.Writer) error

	MatchesSKU(sku string) bool
	SKUGreaterThan(sku string) bool
	// GreaterThan orders items by name.
	GreaterThan(other Item) bool

	Type() byte
	SKU() string
	Name() string
	TotalCost() float64
	Quantity() int
	SetQuantity(n int)
	QuantityNeeded() int
	AddQuantity(delta int) int
	IsEmpty() bool
	Message() string

	sealed()
}

// CreateProduct returns an empty product.
func CreateProduct() Item {
	return &Product{kind: TypeProduct}
}

// CreatePerishable returns an empty perishable product.
func CreatePerishable() Item {
	return &Perishable{Product: Product{kind: TypePerishable}}
}

// NewItem returns an empty item of the kind named by tag, in either case.
func NewItem(tag byte) (Item, error) {
	switch tag {
	case TypeProduct, 'n':
		return CreateProduct(), nil
	case TypePerishable, 'p':
		return CreatePerishable(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, tag)
}

// ReadItem reads the next machine record, dispatching on its type tag. Blank
// lines are skipped; io.EOF is returned once the input is exhausted.
func ReadItem(r *FieldReader) (Item, error) {
	if r.Failed() {
		return nil, r.Err()
	}
	r.skipSpace()
	if r.AtEOF() {
		return nil, io.EOF
	}

	tag, _ := r.next()
	if sep, ok := r.next(); !ok || sep != ',' {
		err := malformed("type", "missing separator")
		r.Fail(err)
		return nil, err
	}

	item, err := NewItem(tag)
	if err != nil {
		r.Fail(err)
		return nil, err
	}
	if err := item.Load(r); err != nil {
		return nil, err
	}
	return item, nil
}

// MarshalRecord returns the record line of item, without a line break.
func MarshalRecord(item Item) (string, error) {
	var sb strings.Builder
	if err := item.Store(&sb, false); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// UnmarshalRecord decodes a single record line.
func UnmarshalRecord(line string) (Item, error) {
	r := NewFieldReader(strings.NewReader(line))
	item, err := ReadItem(r)
	if errors.Is(err, io.EOF) {
		return nil, malformed("type", "empty line")
	}
	if err != nil {
		return nil, err
	}

	r.skipSpace()
	if !r.AtEOF() {
		return nil, malformed("record", "more than one line")
	}
	return item, nil
}
