package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"bistro/internal/core/id"
	"bistro/internal/domain"
	"bistro/internal/domain/documents/order"
	"bistro/internal/infrastructure/http/v1/dto"
)

// OrderService is the order operations the HTTP API exposes.
type OrderService interface {
	Create(ctx context.Context, doc *order.Order) error
	GetByID(ctx context.Context, docID id.ID) (*order.Order, error)
	GetByNumber(ctx context.Context, number int64) (*order.Order, error)
	UpdateItems(ctx context.Context, docID id.ID, items []order.Item) (*order.Order, error)
	SetStatus(ctx context.Context, docID id.ID, status order.Status) (*order.Order, error)
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter order.ListFilter) (domain.ListResult[*order.Order], error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	*BaseHandler
	service OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service OrderService) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromOrder(doc))
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(doc))
}

// GetByNumber handles GET /orders/number/:number.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	number, ok := h.ParseNumber(c, "number")
	if !ok {
		return
	}

	doc, err := h.service.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(doc))
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	var q dto.OrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	res, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(res, dto.FromOrder))
}

// UpdateItems handles PUT /orders/:id/items.
func (h *OrderHandler) UpdateItems(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateItems(c.Request.Context(), docID, req.ToItems())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(doc))
}

// SetStatus handles POST /orders/:id/status.
func (h *OrderHandler) SetStatus(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.SetStatus(c.Request.Context(), docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOrder(doc))
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
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
