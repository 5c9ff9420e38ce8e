package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MaxSKULength  = 7
	MaxNameLength = 10
	MaxUnitLength = 75

	TaxRate = 0.13
)

// Record type tags.
const (
	TypeProduct    byte = 'N'
	TypePerishable byte = 'P'
)

var ErrInvalidProduct = errors.New("invalid product")

// Product is a stocked item. It is either empty or fully populated; a failed load
// or read leaves it empty with the reason attached.
type Product struct {
	kind   byte
	sku    string
	name   string
	unit   string
	onHand int
	needed int
	price  float64
	taxed  bool
	state  ErrorState
}

// NewProduct builds a populated product from trusted fields. Names longer than
// MaxNameLength are cut to that length.
func NewProduct(sku, name, unit string, onHand int, taxed bool, price float64, needed int) (*Product, error) {
	f := productFields{
		sku:    sku,
		name:   truncate(name, MaxNameLength),
		unit:   unit,
		onHand: onHand,
		needed: needed,
		price:  price,
		taxed:  taxed,
	}
	if err := f.validate(); err != nil {
		return nil, err
	}

	p := &Product{kind: TypeProduct}
	p.assign(f)
	return p, nil
}

// productFields is a fully read set of values that have not been committed yet.
type productFields struct {
	sku    string
	name   string
	unit   string
	onHand int
	needed int
	price  float64
	taxed  bool
}

func (f productFields) validate() error {
	switch {
	case f.sku == "" || utf8.RuneCountInString(f.sku) > MaxSKULength:
		return fmt.Errorf("%w: sku must be 1-%d characters", ErrInvalidProduct, MaxSKULength)
	case utf8.RuneCountInString(f.unit) > MaxUnitLength:
		return fmt.Errorf("%w: unit longer than %d characters", ErrInvalidProduct, MaxUnitLength)
	case hasDelimiter(f.sku) || hasDelimiter(f.name) || hasDelimiter(f.unit):
		return fmt.Errorf("%w: text fields cannot contain ',' or line breaks", ErrInvalidProduct)
	case f.onHand < 0 || f.needed < 0:
		return fmt.Errorf("%w: negative quantity", ErrInvalidProduct)
	case f.price < 0 || math.IsNaN(f.price) || math.IsInf(f.price, 0):
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidProduct)
	}
	return nil
}

func hasDelimiter(s string) bool {
	return strings.ContainsAny(s, ",\r\n")
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func (p *Product) assign(f productFields) {
	p.sku = f.sku
	p.name = f.name
	p.unit = f.unit
	p.onHand = f.onHand
	p.needed = f.needed
	p.price = f.price
	p.taxed = f.taxed
}

// setEmpty blanks every field except the type tag and the message.
func (p *Product) setEmpty() {
	p.assign(productFields{})
}

func (p *Product) sealed() {}

func (p *Product) Type() byte            { return p.kind }
func (p *Product) SetType(kind byte)     { p.kind = kind }
func (p *Product) SKU() string           { return p.sku }
func (p *Product) Name() string          { return p.name }
func (p *Product) Unit() string          { return p.unit }
func (p *Product) Price() float64        { return p.price }
func (p *Product) Taxed() bool           { return p.taxed }
func (p *Product) Quantity() int         { return p.onHand }
func (p *Product) QuantityNeeded() int   { return p.needed }
func (p *Product) SetQuantity(n int)     { p.onHand = n }
func (p *Product) Message() string       { return p.state.Message() }
func (p *Product) SetMessage(msg string) { p.state.SetMessage(msg) }
func (p *Product) IsClear() bool         { return p.state.IsClear() }

// UnitCost is the price of one unit including tax when the product is taxed.
func (p *Product) UnitCost() float64 {
	if p.taxed {
		return p.price * (1 + TaxRate)
	}
	return p.price
}

func (p *Product) TotalCost() float64 {
	return p.UnitCost() * float64(p.onHand)
}

// AddQuantity adds delta units on hand and returns the new count. Zero and
// negative deltas are ignored.
func (p *Product) AddQuantity(delta int) int {
	if delta > 0 {
		p.onHand += delta
	}
	return p.onHand
}

func (p *Product) IsEmpty() bool {
	return p.sku == "" &&
		p.name == "" &&
		p.unit == "" &&
		p.onHand == 0 &&
		p.needed == 0 &&
		p.price == 0 &&
		!p.taxed
}

func (p *Product) MatchesSKU(sku string) bool {
	return p.sku == sku
}

// SKUGreaterThan compares skus byte-wise.
func (p *Product) SKUGreaterThan(sku string) bool {
	return p.sku > sku
}

// GreaterThan compares product names, case-sensitively.
func (p *Product) GreaterThan(other Item) bool {
	return p.name > other.Name()
}
