package dto

import (
	"github.com/samber/lo"

	"bistro/internal/core/types"
	"bistro/internal/domain/billing"
)

// QuoteItem is one priced line of a quote.
type QuoteItem struct {
	Price    types.Money `json:"price"`
	Quantity int         `json:"quantity"`
}

// QuoteRequest prices items without storing anything. Tip and discount are
// optional; when either is present the bill total is quoted too.
type QuoteRequest struct {
	Items    []QuoteItem  `json:"items"`
	Tip      *types.Money `json:"tip,omitempty"`
	Discount *types.Money `json:"discount,omitempty"`
}

// LineItems converts the request to calculator input.
func (r *QuoteRequest) LineItems() []billing.LineItem {
	return lo.Map(r.Items, func(it QuoteItem, _ int) billing.LineItem {
		return billing.LineItem{Price: it.Price, Quantity: it.Quantity}
	})
}

// HasAdjustments reports whether a bill total was asked for.
func (r *QuoteRequest) HasAdjustments() bool {
	return r.Tip != nil || r.Discount != nil
}

// QuoteResponse carries the computed totals.
type QuoteResponse struct {
	billing.OrderTotals
	BillTotal *types.Money `json:"billTotal,omitempty"`
}
