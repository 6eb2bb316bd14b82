// Package billing derives monetary totals for orders and bills.
//
// Every function is pure: callers invoke them explicitly on each create and
// update, before persisting, so stored totals always match their inputs.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bistro/internal/core/apperror"
	"bistro/internal/core/types"
)

// TaxRate is the fixed tax applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// LineItem is the part of an order line that contributes to totals.
type LineItem struct {
	Price    types.Money
	Quantity int
}

// OrderTotals is a consistent subtotal/tax/total triple.
type OrderTotals struct {
	Subtotal types.Money `json:"subtotal"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

// BillInput carries the order amounts plus bill-level adjustments.
type BillInput struct {
	Subtotal types.Money
	Tax      types.Money
	Tip      types.Money
	Discount types.Money
}

// BillTotals is the derived bill amount.
type BillTotals struct {
	Total types.Money `json:"total"`
}

// ComputeOrderTotals sums price*quantity over items and applies tax.
//
// The subtotal is rounded to cents after summing. Tax is computed from the
// unrounded sum and rounded on its own. An empty item list yields zeros.
func ComputeOrderTotals(items []LineItem) (OrderTotals, error) {
	raw := decimal.Zero
	for i, item := range items {
		if err := validateItem(i+1, item); err != nil {
			return OrderTotals{}, err
		}
		raw = raw.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	subtotal := types.RoundMoney(raw)
	tax := types.RoundMoney(raw.Mul(TaxRate))

	return OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    types.RoundMoney(subtotal.Add(tax)),
	}, nil
}

// ComputeBillTotals returns round(subtotal + tax + tip - discount).
// Zero-value Tip and Discount mean no adjustment.
func ComputeBillTotals(in BillInput) (BillTotals, error) {
	amounts := []struct {
		field string
		value types.Money
	}{
		{"subtotal", in.Subtotal},
		{"tax", in.Tax},
		{"tip", in.Tip},
		{"discount", in.Discount},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return BillTotals{}, apperror.NewInvalidAdjustment(fmt.Sprintf("%s must not be negative", a.field)).
				WithDetail("field", a.field).
				WithDetail("value", a.value.String())
		}
	}

	total := types.RoundMoney(in.Subtotal.Add(in.Tax).Add(in.Tip).Sub(in.Discount))
	if total.IsNegative() {
		return BillTotals{}, apperror.NewInvalidAdjustment("discount exceeds bill amount").
			WithDetail("discount", in.Discount.String()).
			WithDetail("total", total.String())
	}

	return BillTotals{Total: total}, nil
}

func validateItem(lineNo int, item LineItem) error {
	if item.Price.IsNegative() {
		return apperror.NewInvalidItem(lineNo, "price must not be negative").
			WithDetail("field", "price")
	}
	if item.Quantity <= 0 {
		return apperror.NewInvalidItem(lineNo, "quantity must be positive").
			WithDetail("field", "quantity")
	}
	return nil
}
