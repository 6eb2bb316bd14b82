package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/core/apperror"
	coresequence "bistro/internal/core/sequence"
)

func TestMemory_NextStartsAtOneAndIncreases(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := m.Next(ctx, coresequence.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	cur, err := m.Current(ctx, coresequence.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cur)
}

func TestMemory_SequencesAreIndependent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.Next(ctx, coresequence.OrderNumber)
		require.NoError(t, err)
	}

	bill, err := m.Next(ctx, coresequence.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bill)

	order, err := m.Next(ctx, coresequence.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(4), order)
}

func TestMemory_ConcurrentNextIsUnique(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	const workers, perWorker = 16, 250

	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
	)

	var wg conc.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			local := make([]int64, 0, perWorker)
			last := int64(0)
			for i := 0; i < perWorker; i++ {
				n, err := m.Next(ctx, coresequence.OrderNumber)
				if err != nil {
					panic(err)
				}
				if n <= last {
					panic("sequence went backwards within one caller")
				}
				last = n
				local = append(local, n)
			}
			mu.Lock()
			for _, n := range local {
				seen[n] = struct{}{}
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	for n := int64(1); n <= workers*perWorker; n++ {
		assert.Contains(t, seen, n)
	}
}

func TestMemory_SeedNeverLowers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Seed(ctx, coresequence.BillNumber, 100))
	n, err := m.Next(ctx, coresequence.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(101), n)

	require.NoError(t, m.Seed(ctx, coresequence.BillNumber, 10))
	n, err = m.Next(ctx, coresequence.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(102), n)
}

func TestMemory_InvalidArguments(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Next(ctx, "  ")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = m.Current(ctx, "")
	assert.Error(t, err)

	assert.Error(t, m.Seed(ctx, coresequence.OrderNumber, -1))

	cur, err := m.Current(ctx, "never-used")
	require.NoError(t, err)
	assert.Zero(t, cur)
}
