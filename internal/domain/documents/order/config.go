package order

import "bistro/internal/core/sequence"

const (
	// NumberSequence is the counter orders draw their numbers from.
	NumberSequence = sequence.OrderNumber

	// NumberPrefix is used for display numbers (ORD-00001).
	NumberPrefix = "ORD"
)
