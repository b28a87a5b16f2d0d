// Package calc computes invoice totals.
package calc

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/shopspring/decimal"
)

// Compute turns line items plus discount and tax into a total, rounded to
// 2 decimal places half away from zero. A non-nil totalOverride wins over
// the computed value; line items are still recomputed and stored for
// transparency.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func Compute(items []domain.LineItem, discount, taxRatePercent decimal.Decimal, totalOverride *decimal.Decimal) decimal.Decimal {
	if totalOverride != nil {
		return totalOverride.Round(2)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	tax := subtotal.Mul(taxRatePercent).Div(decimal.NewFromInt(100))
	return subtotal.Sub(discount).Add(tax).Round(2)
}

// Subtotal sums the line item subtotals without discount or tax.
func Subtotal(items []domain.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	return subtotal
}

// LineSubtotal computes one line's charge: daysPresent × ratePerDay,
// rounded to 2 decimal places.
func LineSubtotal(daysPresent int, ratePerDay decimal.Decimal) decimal.Decimal {
	return ratePerDay.Mul(decimal.NewFromInt(int64(daysPresent))).Round(2)
}
