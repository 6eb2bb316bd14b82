// Package sequence provides the contract for durable named counters that hand
// out order and bill numbers. Implementations live in infrastructure/sequence.
package sequence

import (
	"context"
	"strings"

	"bistro/internal/core/apperror"
)

// Well-known sequence names.
const (
	OrderNumber = "orderNumber"
	BillNumber  = "billNumber"
)

// Generator hands out strictly increasing integers per sequence name.
//
// Next must be a single atomic upsert+increment against the backing store:
// two concurrent callers never observe the same value. The counter is persisted
// before the value is returned. Values skipped by callers that fail to persist
// their document are not reclaimed.
type Generator interface {
	// Next increments the counter for name (creating it at zero if absent) and
	// returns the new value. The first call on a fresh counter returns 1.
	Next(ctx context.Context, name string) (int64, error)

	// Current returns the last issued value, or 0 if the counter does not exist.
	Current(ctx context.Context, name string) (int64, error)

	// Seed raises the counter to at least value. It never lowers a counter,
	// so numbers issued afterwards stay strictly increasing.
	Seed(ctx context.Context, name string, value int64) error
}

// ValidateName rejects empty or whitespace-only sequence names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidation("sequence name is required").
			WithDetail("field", "name")
	}
	return nil
}

// ValidateSeed checks the arguments of Seed.
func ValidateSeed(name string, value int64) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if value < 0 {
		return apperror.NewValidation("seed value must not be negative").
			WithDetail("field", "value").
			WithDetail("value", value)
	}
	return nil
}
