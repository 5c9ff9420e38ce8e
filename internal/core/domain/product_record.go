package domain

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMalformedRecord is returned when a machine record cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNotStorable is returned when storing an empty or incomplete record.
	ErrNotStorable = errors.New("record is empty or incomplete")
)

// Store writes the record line "tag,sku,name,unit,taxed,price,onHand,needed".
func (p *Product) Store(w io.Writer, newline bool) error {
	if p.IsEmpty() {
		return ErrNotStorable
	}
	if err := p.storeFields(w); err != nil {
		return err
	}
	if newline {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func (p *Product) storeFields(w io.Writer) error {
	if hasDelimiter(p.sku) || hasDelimiter(p.name) || hasDelimiter(p.unit) {
		return ErrNotStorable
	}
	taxed := 0
	if p.taxed {
		taxed = 1
	}
	_, err := fmt.Fprintf(w, "%c,%s,%s,%s,%d,%s,%d,%d",
		p.kind, p.sku, p.name, p.unit, taxed,
		strconv.FormatFloat(p.price, 'f', -1, 64), p.onHand, p.needed)
	return err
}

// Load reads the fields of a record line that follow the type tag. On any error
// the product is left empty and the reader failed.
func (p *Product) Load(r *FieldReader) error {
	return p.load(r, false)
}

// load reads the shared fields; more means another field follows quantity needed.
func (p *Product) load(r *FieldReader, more bool) error {
	f, err := readRecordFields(r, more)
	if err != nil {
		p.setEmpty()
		r.Fail(err)
		return err
	}
	p.assign(f)
	return nil
}

var recordFieldNames = [...]string{"sku", "name", "unit", "taxed", "price", "quantity", "quantity needed"}

func malformed(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedRecord, field, reason)
}

func readRecordFields(r *FieldReader, more bool) (productFields, error) {
	var f productFields
	if r.Failed() {
		return f, r.Err()
	}

	var tokens [len(recordFieldNames)]string
	for i, field := range recordFieldNames {
		tok, stop := r.readUntil(",\n")
		last := i == len(recordFieldNames)-1
		switch {
		case !last || more:
			if stop != ',' {
				return f, malformed(field, "record ends early")
			}
		default:
			if stop == ',' {
				return f, malformed(field, "unexpected trailing field")
			}
			tok = strings.TrimSuffix(tok, "\r")
		}
		tokens[i] = tok
	}

	f.sku = tokens[0]
	if f.sku == "" || utf8.RuneCountInString(f.sku) > MaxSKULength {
		return f, malformed("sku", "must be 1-7 characters")
	}
	f.name = truncate(tokens[1], MaxNameLength)
	f.unit = tokens[2]
	if utf8.RuneCountInString(f.unit) > MaxUnitLength {
		return f, malformed("unit", "too long")
	}

	switch strings.TrimSpace(tokens[3]) {
	case "1":
		f.taxed = true
	case "0":
		f.taxed = false
	default:
		return f, malformed("taxed", "must be 0 or 1")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(tokens[4]), 64)
	if err != nil || price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return f, malformed("price", strconv.Quote(tokens[4]))
	}
	f.price = price

	if f.onHand, err = parseCount(tokens[5]); err != nil {
		return f, malformed("quantity", strconv.Quote(tokens[5]))
	}
	if f.needed, err = parseCount(tokens[6]); err != nil {
		return f, malformed("quantity needed", strconv.Quote(tokens[6]))
	}
	return f, nil
}

var errNegative = errors.New("negative count")

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}
