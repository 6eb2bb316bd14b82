package order

import (
	"context"
	"time"

	"bistro/internal/core/id"
	"bistro/internal/domain"
)

// Repository defines storage operations for orders.
type Repository interface {
	Create(ctx context.Context, doc *Order) error
	GetByID(ctx context.Context, docID id.ID) (*Order, error)
	GetByNumber(ctx context.Context, number int64) (*Order, error)
	Update(ctx context.Context, doc *Order) error
	Delete(ctx context.Context, docID id.ID) error

	GetItems(ctx context.Context, docID id.ID) ([]Item, error)
	SaveItems(ctx context.Context, docID id.ID, items []Item) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)
}

// ListFilter for filtering orders.
type ListFilter struct {
	domain.ListFilter

	Status      *Status
	TableNumber *int
	DateFrom    *time.Time
	DateTo      *time.Time
}
