package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPadWidth is the minimum width of the numeric part of a display number.
const DefaultPadWidth = 5

// Format renders a display number such as ORD-00042.
// An empty prefix yields just the padded number.
func Format(prefix string, n int64, padWidth int) string {
	if padWidth <= 0 {
		padWidth = DefaultPadWidth
	}
	if prefix == "" {
		return fmt.Sprintf("%0*d", padWidth, n)
	}
	return fmt.Sprintf("%s-%0*d", prefix, padWidth, n)
}

// Parse extracts the numeric part from a formatted number.
// Returns -1 if parsing fails.
func Parse(formatted string) int64 {
	s := formatted
	if i := strings.LastIndex(s, "-"); i >= 0 {
		s = s[i+1:]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
