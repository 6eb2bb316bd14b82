// Package id provides identifiers for orders and bills.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used for every stored document.
type ID = uuid.UUID

// New generates a time-ordered UUIDv7 so documents sort by creation.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
