package handlers

import (
	"github.com/gin-gonic/gin"

	"bistro/internal/domain/billing"
	"bistro/internal/infrastructure/http/v1/dto"
)

// BillingHandler prices items without storing anything.
type BillingHandler struct {
	*BaseHandler
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(base *BaseHandler) *BillingHandler {
	return &BillingHandler{BaseHandler: base}
}

// Quote handles POST /billing/quote.
func (h *BillingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	totals, err := billing.ComputeOrderTotals(req.LineItems())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.QuoteResponse{OrderTotals: totals}
	if req.HasAdjustments() {
		in := billing.BillInput{Subtotal: totals.Subtotal, Tax: totals.Tax}
		if req.Tip != nil {
			in.Tip = *req.Tip
		}
		if req.Discount != nil {
			in.Discount = *req.Discount
		}
		bt, err := billing.ComputeBillTotals(in)
		if err != nil {
			h.Error(c, err)
			return
		}
		resp.BillTotal = &bt.Total
	}

	h.OK(c, resp)
}
