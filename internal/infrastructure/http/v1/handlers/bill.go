package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"bistro/internal/core/id"
	"bistro/internal/core/types"
	"bistro/internal/domain"
	"bistro/internal/domain/documents/bill"
	"bistro/internal/infrastructure/http/v1/dto"
)

// BillService is the bill operations the HTTP API exposes.
type BillService interface {
	CreateForOrder(ctx context.Context, orderID id.ID, req bill.Request) (*bill.Bill, error)
	GetByID(ctx context.Context, docID id.ID) (*bill.Bill, error)
	GetByOrderID(ctx context.Context, orderID id.ID) (*bill.Bill, error)
	UpdateAdjustments(ctx context.Context, docID id.ID, tip, discount types.Money) (*bill.Bill, error)
	MarkPaid(ctx context.Context, docID id.ID, method bill.PaymentMethod) (*bill.Bill, error)
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter bill.ListFilter) (domain.ListResult[*bill.Bill], error)
}

// BillHandler handles bill endpoints.
type BillHandler struct {
	*BaseHandler
	service BillService
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(base *BaseHandler, service BillService) *BillHandler {
	return &BillHandler{BaseHandler: base, service: service}
}

// CreateForOrder handles POST /orders/:id/bill.
func (h *BillHandler) CreateForOrder(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateBillRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.CreateForOrder(c.Request.Context(), orderID, req.ToRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromBill(doc))
}

// GetForOrder handles GET /orders/:id/bill.
func (h *BillHandler) GetForOrder(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBill(doc))
}

// Get handles GET /bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBill(doc))
}

// List handles GET /bills.
func (h *BillHandler) List(c *gin.Context) {
	var q dto.BillListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	res, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(res, dto.FromBill))
}

// UpdateAdjustments handles PUT /bills/:id/adjustments.
func (h *BillHandler) UpdateAdjustments(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustmentsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateAdjustments(c.Request.Context(), docID, req.Tip, req.Discount)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBill(doc))
}

// Pay handles POST /bills/:id/pay.
func (h *BillHandler) Pay(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.PayRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.MarkPaid(c.Request.Context(), docID, bill.PaymentMethod(req.PaymentMethod))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBill(doc))
}

// Delete handles DELETE /bills/:id.
func (h *BillHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
