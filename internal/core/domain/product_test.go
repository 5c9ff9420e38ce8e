package domain

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("AB123", "Widget", "box", 5, true, 10, 2)
	require.NoError(t, err)
	return p
}

func reader(s string) *FieldReader {
	return NewFieldReader(strings.NewReader(s))
}

func TestNewProduct(t *testing.T) {
	p := newTestProduct(t)
	assert.Equal(t, TypeProduct, p.Type())
	assert.Equal(t, "AB123", p.SKU())
	assert.Equal(t, "Widget", p.Name())
	assert.Equal(t, "box", p.Unit())
	assert.Equal(t, 5, p.Quantity())
	assert.Equal(t, 2, p.QuantityNeeded())
	assert.True(t, p.Taxed())
	assert.InDelta(t, 11.3, p.UnitCost(), 1e-9)
	assert.InDelta(t, 56.5, p.TotalCost(), 1e-9)
	assert.False(t, p.IsEmpty())
	assert.True(t, p.IsClear())
}

func TestNewProduct_TruncatesName(t *testing.T) {
	p, err := NewProduct("S1", "AVeryLongProductName", "kg", 0, false, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "AVeryLongP", p.Name())
}

func TestNewProduct_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		sku    string
		unit   string
		onHand int
		needed int
		price  float64
	}{
		{"empty sku", "", "box", 0, 0, 1},
		{"long sku", "ABCDEFGH", "box", 0, 0, 1},
		{"long unit", "A1", strings.Repeat("u", MaxUnitLength+1), 0, 0, 1},
		{"delimiter", "A,1", "box", 0, 0, 1},
		{"negative on hand", "A1", "box", -1, 0, 1},
		{"negative needed", "A1", "box", 0, -1, 1},
		{"negative price", "A1", "box", 0, 0, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.sku, "Name", tt.unit, tt.onHand, false, tt.price, tt.needed)
			assert.ErrorIs(t, err, ErrInvalidProduct)
			assert.Nil(t, p)
		})
	}
}

func TestProduct_AddQuantity(t *testing.T) {
	p := newTestProduct(t)

	assert.Equal(t, 5, p.AddQuantity(-3))
	assert.Equal(t, 5, p.Quantity())
	assert.Equal(t, 5, p.AddQuantity(0))
	assert.Equal(t, 8, p.AddQuantity(3))

	p.SetQuantity(1)
	assert.Equal(t, 1, p.Quantity())
}

func TestProduct_Ordering(t *testing.T) {
	a, _ := NewProduct("B200", "apple", "kg", 1, false, 1, 0)
	b, _ := NewProduct("A100", "Banana", "kg", 1, false, 1, 0)

	assert.True(t, a.SKUGreaterThan("A100"))
	assert.False(t, b.SKUGreaterThan("B200"))

	// lower case sorts after upper case
	assert.True(t, a.GreaterThan(b))
	assert.False(t, b.GreaterThan(a))

	assert.True(t, a.MatchesSKU("B200"))
	assert.False(t, a.MatchesSKU("B20"))
}

func TestProduct_StoreLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		sku     string
		pname   string
		unit    string
		onHand  int
		taxed   bool
		price   float64
		needed  int
		wantRec string
	}{
		{"taxed", "AB123", "Widget", "box", 5, true, 10.5, 2, "N,AB123,Widget,box,1,10.5,5,2"},
		{"untaxed", "Z", "Salt", "kg", 0, false, 0.1, 40, "N,Z,Salt,kg,0,0.1,0,40"},
		{"max lengths", "SEVEN77", "TenLetters", strings.Repeat("u", MaxUnitLength), 999, true, 1234567.891, 1,
			"N,SEVEN77,TenLetters," + strings.Repeat("u", MaxUnitLength) + ",1,1234567.891,999,1"},
		{"spaces in text", "S 1", "Two Words", "large box", 3, false, 7, 3, "N,S 1,Two Words,large box,0,7,3,3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.sku, tt.pname, tt.unit, tt.onHand, tt.taxed, tt.price, tt.needed)
			require.NoError(t, err)

			var sb strings.Builder
			require.NoError(t, p.Store(&sb, true))
			assert.Equal(t, tt.wantRec+"\n", sb.String())

			r := reader(sb.String())
			item, err := ReadItem(r)
			require.NoError(t, err)

			loaded, ok := item.(*Product)
			require.True(t, ok)
			assert.Equal(t, p.SKU(), loaded.SKU())
			assert.Equal(t, p.Name(), loaded.Name())
			assert.Equal(t, p.Unit(), loaded.Unit())
			assert.Equal(t, p.Quantity(), loaded.Quantity())
			assert.Equal(t, p.QuantityNeeded(), loaded.QuantityNeeded())
			assert.Equal(t, p.Price(), loaded.Price())
			assert.Equal(t, p.Taxed(), loaded.Taxed())
			assert.Equal(t, TypeProduct, loaded.Type())

			_, err = ReadItem(r)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestProduct_LoadTruncatesName(t *testing.T) {
	p := &Product{kind: TypeProduct}
	require.NoError(t, p.Load(reader("S1,ElevenChars,kg,0,1,2,3")))
	assert.Equal(t, "ElevenChar", p.Name())
}

func TestProduct_LoadFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty sku", ",Widget,box,1,10,5,2"},
		{"long sku", "ABCDEFGH,Widget,box,1,10,5,2"},
		{"long unit", "A1,Widget," + strings.Repeat("u", MaxUnitLength+1) + ",1,10,5,2"},
		{"taxed flag 2", "A1,Widget,box,2,10,5,2"},
		{"taxed flag text", "A1,Widget,box,yes,10,5,2"},
		{"bad price", "A1,Widget,box,1,abc,5,2"},
		{"negative price", "A1,Widget,box,1,-1,5,2"},
		{"bad quantity", "A1,Widget,box,1,10,x,2"},
		{"negative quantity", "A1,Widget,box,1,10,-5,2"},
		{"bad needed", "A1,Widget,box,1,10,5,two"},
		{"line ends early", "A1,Widget,box,1\n10,5,2"},
		{"truncated input", "A1,Widget"},
		{"extra field", "A1,Widget,box,1,10,5,2,9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProduct(t)
			r := reader(tt.input)

			err := p.Load(r)
			require.ErrorIs(t, err, ErrMalformedRecord)
			assert.True(t, p.IsEmpty(), "no field of a failed load may survive")
			assert.True(t, r.Failed())
			assert.Equal(t, TypeProduct, p.Type())
		})
	}
}

func TestProduct_LoadOnFailedReader(t *testing.T) {
	r := reader("A1,Widget,box,1,10,5,2")
	r.Fail(ErrDateParse)

	p := newTestProduct(t)
	err := p.Load(r)
	assert.ErrorIs(t, err, ErrDateParse)
	assert.True(t, p.IsEmpty())
}

func TestProduct_StoreEmpty(t *testing.T) {
	var sb strings.Builder
	assert.ErrorIs(t, CreateProduct().Store(&sb, true), ErrNotStorable)
	assert.Empty(t, sb.String())
}

func TestProduct_StoreRefusesDelimiterInText(t *testing.T) {
	for _, set := range []func(p *Product){
		func(p *Product) { p.sku = "A,B" },
		func(p *Product) { p.name = "Wid,get" },
		func(p *Product) { p.unit = "bo\nx" },
	} {
		p := newTestProduct(t)
		set(p)

		var sb strings.Builder
		assert.ErrorIs(t, p.Store(&sb, true), ErrNotStorable)
		assert.Empty(t, sb.String())
	}
}

func TestProduct_ReadCommaNeverReachesRecord(t *testing.T) {
	p := CreateProduct()
	err := p.Read(reader("Sku: AB\nName: Wid,get\nUnit: box\nTaxed: y\nPrice: 10\nOnHand: 5\nNeeded: 2\n"))
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = MarshalRecord(p)
	assert.ErrorIs(t, err, ErrNotStorable)
}

func TestProduct_Read(t *testing.T) {
	inputs := map[string]string{
		"lines": "Sku: AB\nName (no spaces): Widget\nUnit: box\nTaxed? (y/n): Y\nPrice: 10\nQuantity on hand: 5\nQuantity needed: 2\n",
		"semicolons": "Sku: AB; Name: Widget; Unit: box; Taxed: Y; Price: 10; OnHand: 5; Needed: 2",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			p := &Product{kind: TypeProduct}
			r := reader(input)
			require.NoError(t, p.Read(r))

			assert.False(t, r.Failed())
			assert.True(t, p.IsClear())
			assert.Equal(t, "AB", p.SKU())
			assert.Equal(t, "Widget", p.Name())
			assert.Equal(t, "box", p.Unit())
			assert.True(t, p.Taxed())
			assert.Equal(t, 10.0, p.Price())
			assert.Equal(t, 5, p.Quantity())
			assert.Equal(t, 2, p.QuantityNeeded())
		})
	}
}

func TestProduct_ReadErrors(t *testing.T) {
	valid := []string{"Sku: AB", "Name: Widget", "Unit: box", "Taxed: n", "Price: 10", "OnHand: 5", "Needed: 2"}
	tests := []struct {
		name  string
		field int
		value string
		want  EntryError
	}{
		{"sku too long", 0, "Sku: ABCDEFGH", ErrInvalidSKU},
		{"comma in sku", 0, "Sku: A,B", ErrInvalidSKU},
		{"comma in name", 1, "Name: Wid,get", ErrInvalidName},
		{"comma in unit", 2, "Unit: bo,x", ErrInvalidUnit},
		{"unit too long", 2, "Unit: " + strings.Repeat("u", MaxUnitLength+1), ErrInvalidUnit},
		{"taxed word", 3, "Taxed: yes", ErrInvalidTaxed},
		{"taxed other letter", 3, "Taxed: x", ErrInvalidTaxed},
		{"price text", 4, "Price: abc", ErrInvalidPrice},
		{"price negative", 4, "Price: -2", ErrInvalidPrice},
		{"quantity text", 5, "OnHand: five", ErrInvalidQuantity},
		{"quantity negative", 5, "OnHand: -5", ErrInvalidQuantity},
		{"needed text", 6, "Needed: 2.5", ErrInvalidNeeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := append([]string(nil), valid...)
			fields[tt.field] = tt.value

			p := newTestProduct(t)
			r := reader(strings.Join(fields, "\n"))

			err := p.Read(r)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, p.IsEmpty())
			assert.Equal(t, string(tt.want), p.Message())
			assert.True(t, r.Failed())
		})
	}
}

func TestProduct_ReadExhaustedInput(t *testing.T) {
	tests := map[string]EntryError{
		"":                          ErrInvalidSKU,
		"Sku: AB\n":                 ErrInvalidName,
		"Sku: AB\nName: W\n":        ErrInvalidUnit,
		"Sku: AB\nName: W\nUnit: u": ErrInvalidTaxed,
	}

	for input, want := range tests {
		p := &Product{kind: TypeProduct}
		assert.ErrorIs(t, p.Read(reader(input)), want, "input %q", input)
		assert.Equal(t, string(want), p.Message())
	}
}

func TestProduct_ReadClearsPreviousMessage(t *testing.T) {
	p := &Product{kind: TypeProduct}
	require.Error(t, p.Read(reader("Sku: AB; Name: W; Unit: u; Taxed: Y; Price: abc")))
	require.Equal(t, string(ErrInvalidPrice), p.Message())

	require.NoError(t, p.Read(reader("Sku: AB; Name: W; Unit: u; Taxed: Y; Price: 1; OnHand: 1; Needed: 1")))
	assert.True(t, p.IsClear())
}

func TestProduct_RenderTabular(t *testing.T) {
	p := newTestProduct(t)

	var sb strings.Builder
	require.NoError(t, p.RenderTabular(&sb))
	assert.Equal(t, "AB123  |Widget              |  11.30|   5|box       |   2|", sb.String())

	untaxed, _ := NewProduct("C3", "Nuts", "bag", 12, false, 3, 100)
	sb.Reset()
	require.NoError(t, untaxed.RenderTabular(&sb))
	assert.Equal(t, "C3     |Nuts                |   3.00|  12|bag       | 100|", sb.String())
}

func TestProduct_RenderVerbose(t *testing.T) {
	p := newTestProduct(t)

	var sb strings.Builder
	require.NoError(t, p.RenderVerbose(&sb))
	want := " Sku: AB123\n" +
		" Name (no spaces): Widget\n" +
		" Price: 10.00\n" +
		" Price after tax: 11.30\n" +
		" Quantity on Hand: 5 box\n" +
		" Quantity needed: 2"
	assert.Equal(t, want, sb.String())

	untaxed, _ := NewProduct("C3", "Nuts", "bag", 12, false, 3, 100)
	sb.Reset()
	require.NoError(t, untaxed.RenderVerbose(&sb))
	assert.Contains(t, sb.String(), " Price after tax: N/A\n")
}

func TestProduct_RenderShowsPendingMessage(t *testing.T) {
	p := &Product{kind: TypeProduct}
	require.Error(t, p.Read(reader("Sku: AB; Name: W; Unit: u; Taxed: Y; Price: abc")))

	var sb strings.Builder
	require.NoError(t, p.RenderTabular(&sb))
	assert.Equal(t, "Invalid Price Entry", sb.String())

	sb.Reset()
	require.NoError(t, p.RenderVerbose(&sb))
	assert.Equal(t, "Invalid Price Entry", sb.String())
}
