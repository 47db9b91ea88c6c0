// Package money is the financial calculator for quote documents. It
// is a pure transform from line items and pricing options to a rounded
// breakdown; it performs no I/O and never mutates its inputs.
package money

import (
	"github.com/shopspring/decimal"

	"quotegen/internal/quote"
)

var hundred = decimal.NewFromInt(100)

// Breakdown holds every displayed amount, each rounded to two decimal
// places exactly once. Accumulation happens at full precision so the
// rounding is applied at output time only.
type Breakdown struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	DownPayment decimal.Decimal
	Remaining   decimal.Decimal
}

// Calculate computes the breakdown for a document's pricing fields.
// Inputs are assumed to have passed quote.Validate; clamps here keep
// displayed amounts non-negative regardless:
//
//	discount  <= subtotal (FIXED kind is clamped)
//	downPayment in [0, total]
//	remaining >= 0
func Calculate(doc *quote.Document) Breakdown {
	subtotal := decimal.Zero
	for _, item := range doc.Items {
		subtotal = subtotal.Add(item.Total())
	}

	discount := decimal.Zero
	if doc.Discount != nil {
		switch doc.Discount.Kind {
		case quote.Percentage:
			discount = subtotal.Mul(doc.Discount.Value).Div(hundred)
		case quote.Fixed:
			discount = decimal.Min(doc.Discount.Value, subtotal)
		}
	}

	tax := decimal.Zero
	if doc.Tax != nil {
		tax = subtotal.Sub(discount).Mul(doc.Tax.Rate).Div(hundred)
	}

	total := subtotal.Sub(discount).Add(tax)

	down := decimal.Zero
	if doc.DownPayment != nil {
		switch doc.DownPayment.Kind {
		case quote.Percentage:
			down = total.Mul(doc.DownPayment.Value).Div(hundred)
		case quote.Fixed:
			down = doc.DownPayment.Value
		}
		down = decimal.Max(decimal.Zero, decimal.Min(down, total))
	}

	remaining := decimal.Max(decimal.Zero, total.Sub(down))

	return Breakdown{
		Subtotal:    subtotal.Round(2),
		Discount:    discount.Round(2),
		Tax:         tax.Round(2),
		Total:       total.Round(2),
		DownPayment: down.Round(2),
		Remaining:   remaining.Round(2),
	}
}
