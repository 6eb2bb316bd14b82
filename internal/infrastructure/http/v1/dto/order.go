package dto

import (
	"time"

	"github.com/samber/lo"

	"bistro/internal/core/types"
	"bistro/internal/domain/documents/order"
)

// OrderItemRequest is one dish in a create/update request.
// Price and quantity ranges are checked by the billing calculator.
type OrderItemRequest struct {
	Name     string      `json:"name" binding:"required"`
	Price    types.Money `json:"price"`
	Quantity int         `json:"quantity"`
	Notes    string      `json:"notes,omitempty"`
}

// CreateOrderRequest represents a request to create an order.
type CreateOrderRequest struct {
	Date         *time.Time         `json:"date,omitempty"`
	TableNumber  int                `json:"tableNumber,omitempty" binding:"min=0"`
	CustomerName string             `json:"customerName,omitempty" binding:"max=200"`
	Comment      string             `json:"comment,omitempty"`
	Items        []OrderItemRequest `json:"items" binding:"dive"`
}

// ToEntity converts request to domain entity.
func (r *CreateOrderRequest) ToEntity() *order.Order {
	doc := order.NewOrder()
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.TableNumber = r.TableNumber
	doc.CustomerName = r.CustomerName
	doc.Comment = r.Comment
	doc.SetItems(itemsFromRequest(r.Items))
	return doc
}

// UpdateItemsRequest replaces all order lines.
type UpdateItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"dive"`
}

// ToItems converts request lines to domain items.
func (r *UpdateItemsRequest) ToItems() []order.Item {
	return itemsFromRequest(r.Items)
}

func itemsFromRequest(items []OrderItemRequest) []order.Item {
	return lo.Map(items, func(it OrderItemRequest, _ int) order.Item {
		return order.Item{Name: it.Name, Price: it.Price, Quantity: it.Quantity, Notes: it.Notes}
	})
}

// SetStatusRequest moves an order to another status.
type SetStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// OrderListQuery filters the order list.
type OrderListQuery struct {
	ListQuery
	DateRange
	Status      string `form:"status"`
	TableNumber *int   `form:"tableNumber"`
}

// ToFilter converts the query to a domain filter.
func (q OrderListQuery) ToFilter() order.ListFilter {
	f := order.ListFilter{
		ListFilter:  q.ListQuery.ToFilter(),
		TableNumber: q.TableNumber,
		DateFrom:    q.DateFrom,
		DateTo:      q.DateTo,
	}
	if q.Status != "" {
		f.Status = lo.ToPtr(order.Status(q.Status))
	}
	return f
}

// OrderItemResponse is one order line.
type OrderItemResponse struct {
	LineNo   int         `json:"lineNo"`
	Name     string      `json:"name"`
	Price    types.Money `json:"price"`
	Quantity int         `json:"quantity"`
	Notes    string      `json:"notes,omitempty"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	DocumentResponse
	TableNumber  int                 `json:"tableNumber,omitempty"`
	CustomerName string              `json:"customerName,omitempty"`
	Status       order.Status        `json:"status"`
	Billed       bool                `json:"billed"`
	Subtotal     types.Money         `json:"subtotal"`
	Tax          types.Money         `json:"tax"`
	Total        types.Money         `json:"total"`
	Items        []OrderItemResponse `json:"items,omitempty"`
}

// FromOrder creates response DTO from domain entity.
func FromOrder(doc *order.Order) OrderResponse {
	return OrderResponse{
		DocumentResponse: DocumentResponse{
			ID:            doc.ID.String(),
			Number:        doc.Number,
			DisplayNumber: doc.DisplayNumber(),
			Date:          doc.Date,
			Comment:       doc.Comment,
			DeletionMark:  doc.DeletionMark,
			Version:       doc.Version,
			CreatedAt:     doc.CreatedAt,
			UpdatedAt:     doc.UpdatedAt,
		},
		TableNumber:  doc.TableNumber,
		CustomerName: doc.CustomerName,
		Status:       doc.Status,
		Billed:       doc.Billed,
		Subtotal:     doc.Subtotal,
		Tax:          doc.Tax,
		Total:        doc.Total,
		Items: lo.Map(doc.Items, func(it order.Item, _ int) OrderItemResponse {
			return OrderItemResponse{
				LineNo:   it.LineNo,
				Name:     it.Name,
				Price:    it.Price,
				Quantity: it.Quantity,
				Notes:    it.Notes,
			}
		}),
	}
}
