// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"github.com/samber/lo"

	"bistro/internal/domain"
)

// ListQuery contains the common list parameters.
type ListQuery struct {
	Search         string `form:"search"`
	OrderBy        string `form:"orderBy"`
	IncludeDeleted bool   `form:"includeDeleted"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query to a domain filter, applying defaults.
func (q ListQuery) ToFilter() domain.ListFilter {
	f := domain.DefaultListFilter()
	f.Search = q.Search
	f.IncludeDeleted = q.IncludeDeleted
	f.Offset = q.Offset
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	return f
}

// DateRange filters documents by business date; To is exclusive.
type DateRange struct {
	DateFrom *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps a domain list result through fn.
func NewListResponse[E, T any](res domain.ListResult[E], fn func(E) T) ListResponse[T] {
	return ListResponse[T]{
		Items: lo.Map(res.Items, func(e E, _ int) T {
			return fn(e)
		}),
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
	}
}

// DocumentResponse contains the fields shared by orders and bills.
type DocumentResponse struct {
	ID            string    `json:"id"`
	Number        int64     `json:"number"`
	DisplayNumber string    `json:"displayNumber"`
	Date          time.Time `json:"date"`
	Comment       string    `json:"comment,omitempty"`
	DeletionMark  bool      `json:"deletionMark"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
