package entity

import (
	"context"
	"time"

	"bistro/internal/core/apperror"
)

// Document is the base type for numbered business records (orders, bills).
type Document struct {
	BaseDocument

	// Number is issued by a sequence.Generator and never reused.
	Number int64 `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID dated now.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if d.Number < 0 {
		return apperror.NewValidation("number must not be negative").
			WithDetail("field", "number")
	}
	return nil
}

// HasNumber reports whether a number was already issued.
func (d *Document) HasNumber() bool {
	return d.Number > 0
}
