package bill

import "bistro/internal/core/sequence"

const (
	// NumberSequence is the counter bills draw their numbers from.
	NumberSequence = sequence.BillNumber

	// NumberPrefix is used for display numbers (BILL-00001).
	NumberPrefix = "BILL"
)
