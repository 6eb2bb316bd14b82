package dto

import (
	"time"

	"github.com/samber/lo"

	"bistro/internal/core/types"
	"bistro/internal/domain/documents/bill"
)

// CreateBillRequest bills an order. Omitted tip and discount mean zero.
type CreateBillRequest struct {
	Tip           types.Money `json:"tip"`
	Discount      types.Money `json:"discount"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
}

// ToRequest converts to the bill service request.
func (r *CreateBillRequest) ToRequest() bill.Request {
	return bill.Request{
		Tip:           r.Tip,
		Discount:      r.Discount,
		PaymentMethod: bill.PaymentMethod(r.PaymentMethod),
	}
}

// AdjustmentsRequest replaces tip and discount.
type AdjustmentsRequest struct {
	Tip      types.Money `json:"tip"`
	Discount types.Money `json:"discount"`
}

// PayRequest settles a bill. An empty method keeps the one chosen at creation.
type PayRequest struct {
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// BillListQuery filters the bill list.
type BillListQuery struct {
	ListQuery
	DateRange
	PaymentStatus string `form:"paymentStatus"`
	PaymentMethod string `form:"paymentMethod"`
}

// ToFilter converts the query to a domain filter.
func (q BillListQuery) ToFilter() bill.ListFilter {
	f := bill.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
	}
	if q.PaymentStatus != "" {
		f.PaymentStatus = lo.ToPtr(bill.PaymentStatus(q.PaymentStatus))
	}
	if q.PaymentMethod != "" {
		f.PaymentMethod = lo.ToPtr(bill.PaymentMethod(q.PaymentMethod))
	}
	return f
}

// BillResponse represents a bill in API responses.
type BillResponse struct {
	DocumentResponse
	OrderID       string             `json:"orderId"`
	OrderNumber   int64              `json:"orderNumber"`
	Subtotal      types.Money        `json:"subtotal"`
	Tax           types.Money        `json:"tax"`
	Tip           types.Money        `json:"tip"`
	Discount      types.Money        `json:"discount"`
	Total         types.Money        `json:"total"`
	PaymentMethod bill.PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentStatus bill.PaymentStatus `json:"paymentStatus"`
	PaidAt        *time.Time         `json:"paidAt,omitempty"`
}

// FromBill creates response DTO from domain entity.
func FromBill(doc *bill.Bill) BillResponse {
	return BillResponse{
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
		OrderID:       doc.OrderID.String(),
		OrderNumber:   doc.OrderNumber,
		Subtotal:      doc.Subtotal,
		Tax:           doc.Tax,
		Tip:           doc.Tip,
		Discount:      doc.Discount,
		Total:         doc.Total,
		PaymentMethod: doc.PaymentMethod,
		PaymentStatus: doc.PaymentStatus,
		PaidAt:        doc.PaidAt,
	}
}
