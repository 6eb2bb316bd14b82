package sequence

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"bistro/internal/core/apperror"
	coresequence "bistro/internal/core/sequence"
)

// Memory keeps counters in process memory. Values are lost on restart, so seed
// it with SeedFloors when documents are already stored. It
// is meant for tests and local runs without a database.
type Memory struct {
	counters sync.Map // name -> *atomic.Int64
}

var _ coresequence.Generator = (*Memory)(nil)

// NewMemory creates an empty in-memory generator.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) counter(name string) *atomic.Int64 {
	if c, ok := m.counters.Load(name); ok {
		return c.(*atomic.Int64)
	}
	c, _ := m.counters.LoadOrStore(name, new(atomic.Int64))
	return c.(*atomic.Int64)
}

// Next implements sequence.Generator.
func (m *Memory) Next(_ context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	c := m.counter(name)
	for {
		cur := c.Load()
		if cur == math.MaxInt64 {
			return 0, apperror.NewBusinessRule(apperror.CodeConflict, "sequence exhausted").
				WithDetail("name", name)
		}
		if c.CompareAndSwap(cur, cur+1) {
			return cur + 1, nil
		}
	}
}

// Current implements sequence.Generator.
func (m *Memory) Current(_ context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}
	if c, ok := m.counters.Load(name); ok {
		return c.(*atomic.Int64).Load(), nil
	}
	return 0, nil
}

// Seed implements sequence.Generator.
func (m *Memory) Seed(_ context.Context, name string, value int64) error {
	if err := coresequence.ValidateSeed(name, value); err != nil {
		return err
	}

	c := m.counter(name)
	for {
		cur := c.Load()
		if cur >= value || c.CompareAndSwap(cur, value) {
			return nil
		}
	}
}
