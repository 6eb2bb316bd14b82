package bill

import (
	"context"
	"time"

	"bistro/internal/core/id"
	"bistro/internal/domain"
)

// Repository defines storage operations for bills.
type Repository interface {
	Create(ctx context.Context, doc *Bill) error
	GetByID(ctx context.Context, docID id.ID) (*Bill, error)
	GetByNumber(ctx context.Context, number int64) (*Bill, error)
	// GetByOrderID returns the live (not deleted) bill of an order.
	GetByOrderID(ctx context.Context, orderID id.ID) (*Bill, error)
	Update(ctx context.Context, doc *Bill) error
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error)
}

// ListFilter for filtering bills.
type ListFilter struct {
	domain.ListFilter

	PaymentStatus *PaymentStatus
	PaymentMethod *PaymentMethod
	DateFrom      *time.Time
	DateTo        *time.Time
}
