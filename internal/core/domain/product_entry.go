package domain

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// EntryError is a rejected interactive entry. Its text is shown to the user as is.
type EntryError string

func (e EntryError) Error() string {
	return string(e)
}

const (
	ErrInvalidSKU      EntryError = "Invalid Sku Entry"
	ErrInvalidName     EntryError = "Invalid Name Entry"
	ErrInvalidUnit     EntryError = "Invalid Unit Entry"
	ErrInvalidTaxed    EntryError = "Only (Y)es or (N)o are acceptable"
	ErrInvalidPrice    EntryError = "Invalid Price Entry"
	ErrInvalidQuantity EntryError = "Invalid Quantity Entry"
	ErrInvalidNeeded   EntryError = "Invalid Quantity Needed Entry"
)

// Read parses a labelled entry: sku, name, unit, taxed (y/n), price, quantity on
// hand and quantity needed, each value preceded by a "Label:" prefix. The first
// bad value empties the product, attaches its message and fails the reader.
func (p *Product) Read(r *FieldReader) error {
	p.state.Clear()

	f, err := readEntryFields(r)
	if err != nil {
		p.setEmpty()
		p.state.SetMessage(err.Error())
		r.Fail(err)
		return err
	}

	p.assign(f)
	r.skipLineEnd()
	return nil
}

func readEntryFields(r *FieldReader) (productFields, error) {
	var f productFields

	sku, ok := r.labelled()
	if !ok || utf8.RuneCountInString(sku) > MaxSKULength || hasDelimiter(sku) {
		return f, ErrInvalidSKU
	}
	f.sku = sku

	name, ok := r.labelled()
	if !ok || hasDelimiter(name) {
		return f, ErrInvalidName
	}
	f.name = truncate(name, MaxNameLength)

	unit, ok := r.labelled()
	if !ok || utf8.RuneCountInString(unit) > MaxUnitLength || hasDelimiter(unit) {
		return f, ErrInvalidUnit
	}
	f.unit = unit

	answer, _ := r.labelled()
	switch answer {
	case "Y", "y":
		f.taxed = true
	case "N", "n":
		f.taxed = false
	default:
		return f, ErrInvalidTaxed
	}

	tok, ok := r.labelled()
	price, err := strconv.ParseFloat(tok, 64)
	if !ok || err != nil || price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return f, ErrInvalidPrice
	}
	f.price = price

	tok, ok = r.labelled()
	if f.onHand, err = parseCount(tok); !ok || err != nil {
		return f, ErrInvalidQuantity
	}

	tok, ok = r.labelled()
	if f.needed, err = parseCount(tok); !ok || err != nil {
		return f, ErrInvalidNeeded
	}
	return f, nil
}
