package sequence

import (
	"context"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextFunc    func(ctx context.Context, name string) (int64, error)
	CurrentFunc func(ctx context.Context, name string) (int64, error)
	SeedFunc    func(ctx context.Context, name string, value int64) error

	// Calls records the names passed to Next.
	Calls []string
}

// Next implements Generator.
func (m *MockGenerator) Next(ctx context.Context, name string) (int64, error) {
	m.Calls = append(m.Calls, name)
	if m.NextFunc != nil {
		return m.NextFunc(ctx, name)
	}
	return int64(len(m.Calls)), nil
}

// Current implements Generator.
func (m *MockGenerator) Current(ctx context.Context, name string) (int64, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, name)
	}
	return int64(len(m.Calls)), nil
}

// Seed implements Generator.
func (m *MockGenerator) Seed(ctx context.Context, name string, value int64) error {
	if m.SeedFunc != nil {
		return m.SeedFunc(ctx, name, value)
	}
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
