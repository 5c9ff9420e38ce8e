package domain

import (
	"fmt"
	"io"
)

// RenderTabular writes one pipe-delimited report row, or the pending message.
func (p *Product) RenderTabular(w io.Writer) error {
	if !p.state.IsClear() {
		_, err := p.state.WriteTo(w)
		return err
	}
	_, err := fmt.Fprintf(w, "%-7s|%-20s|%7.2f|%4d|%-10s|%4d|",
		p.sku, p.name, p.UnitCost(), p.onHand, p.unit, p.needed)
	return err
}

// RenderVerbose writes the labelled detail block, or the pending message. The
// block has no trailing newline.
func (p *Product) RenderVerbose(w io.Writer) error {
	if !p.state.IsClear() {
		_, err := p.state.WriteTo(w)
		return err
	}
	return p.renderVerbose(w)
}

func (p *Product) renderVerbose(w io.Writer) error {
	afterTax := "N/A"
	if p.taxed {
		afterTax = fmt.Sprintf("%.2f", p.UnitCost())
	}
	_, err := fmt.Fprintf(w,
		" Sku: %s\n Name (no spaces): %s\n Price: %.2f\n Price after tax: %s\n Quantity on Hand: %d %s\n Quantity needed: %d",
		p.sku, p.name, p.price, afterTax, p.onHand, p.unit, p.needed)
	return err
}
