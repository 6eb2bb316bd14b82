package sequence

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/core/apperror"
	coresequence "bistro/internal/core/sequence"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier emulates sys_sequences; each statement is applied under one
// lock, like a row-level lock taken by the upsert.
type mockQuerier struct {
	mu      sync.Mutex
	values  map[string]int64
	err     error
	queries []string
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: map[string]int64{}}
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, sql)
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	switch {
	case strings.Contains(sql, "GREATEST"):
		if v := args[1].(int64); v > m.values[key] {
			m.values[key] = v
		}
		return &mockRow{val: m.values[key]}
	case strings.Contains(sql, "INSERT"):
		m.values[key]++
		return &mockRow{val: m.values[key]}
	default:
		v, ok := m.values[key]
		if !ok {
			return &mockRow{err: pgx.ErrNoRows}
		}
		return &mockRow{val: v}
	}
}

func TestPostgres_Next(t *testing.T) {
	q := newMockQuerier()
	gen := NewPostgres(q)
	ctx := context.Background()

	first, err := gen.Next(ctx, coresequence.OrderNumber)
	require.NoError(t, err)
	second, err := gen.Next(ctx, coresequence.OrderNumber)
	require.NoError(t, err)
	bill, err := gen.Next(ctx, coresequence.BillNumber)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), bill)

	// One round trip per number, and it is the upsert.
	require.Len(t, q.queries, 3)
	assert.Contains(t, q.queries[0], "ON CONFLICT (key) DO UPDATE")
	assert.Contains(t, q.queries[0], "RETURNING current_val")
}

func TestPostgres_NextConcurrent(t *testing.T) {
	gen := NewPostgres(newMockQuerier())
	ctx := context.Background()

	const calls = 200
	results := make(chan int64, calls)

	var wg conc.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Go(func() {
			n, err := gen.Next(ctx, coresequence.OrderNumber)
			if err == nil {
				results <- n
			}
		})
	}
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for n := range results {
		assert.False(t, seen[n], "duplicate %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, calls)
}

func TestPostgres_StorageUnavailable(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	gen := NewPostgres(q)
	ctx := context.Background()

	_, err := gen.Next(ctx, coresequence.OrderNumber)
	require.Error(t, err)
	assert.True(t, apperror.IsStorageUnavailable(err))
	assert.ErrorIs(t, err, q.err)

	_, err = gen.Current(ctx, coresequence.OrderNumber)
	assert.True(t, apperror.IsStorageUnavailable(err))

	err = gen.Seed(ctx, coresequence.OrderNumber, 10)
	assert.True(t, apperror.IsStorageUnavailable(err))
}

func TestPostgres_CurrentAndSeed(t *testing.T) {
	gen := NewPostgres(newMockQuerier())
	ctx := context.Background()

	cur, err := gen.Current(ctx, coresequence.BillNumber)
	require.NoError(t, err)
	assert.Zero(t, cur)

	require.NoError(t, gen.Seed(ctx, coresequence.BillNumber, 500))
	require.NoError(t, gen.Seed(ctx, coresequence.BillNumber, 20))

	n, err := gen.Next(ctx, coresequence.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(501), n)

	cur, err = gen.Current(ctx, coresequence.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(501), cur)
}

func TestPostgres_EmptyNameSkipsDatabase(t *testing.T) {
	q := newMockQuerier()
	gen := NewPostgres(q)

	_, err := gen.Next(context.Background(), "")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Empty(t, q.queries)
}
