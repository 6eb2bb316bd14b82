package sequence

import (
	"context"
	"fmt"

	coresequence "bistro/internal/core/sequence"
)

// Floor reports the highest number already issued for a sequence.
type Floor struct {
	Name string
	Max  func(ctx context.Context) (int64, error)
}

// SeedFloors raises each counter to its floor so a generator that lost its
// state never reissues a number that is already stored.
func SeedFloors(ctx context.Context, g coresequence.Generator, floors ...Floor) error {
	for _, f := range floors {
		n, err := f.Max(ctx)
		if err != nil {
			return fmt.Errorf("read floor of %s: %w", f.Name, err)
		}
		if err := g.Seed(ctx, f.Name, n); err != nil {
			return fmt.Errorf("seed %s: %w", f.Name, err)
		}
	}
	return nil
}
