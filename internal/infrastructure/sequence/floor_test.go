package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coresequence "bistro/internal/core/sequence"
)

func fixedFloor(name string, n int64) Floor {
	return Floor{Name: name, Max: func(context.Context) (int64, error) { return n, nil }}
}

func TestSeedFloors_ContinuesAfterStoredNumbers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, SeedFloors(ctx, m,
		fixedFloor(coresequence.OrderNumber, 41),
		fixedFloor(coresequence.BillNumber, 0),
	))

	order, err := m.Next(ctx, coresequence.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order)

	bill, err := m.Next(ctx, coresequence.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bill)
}

func TestSeedFloors_NeverLowersCounter(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Seed(ctx, coresequence.OrderNumber, 100))

	require.NoError(t, SeedFloors(ctx, m, fixedFloor(coresequence.OrderNumber, 7)))

	cur, err := m.Current(ctx, coresequence.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(100), cur)
}

func TestSeedFloors_ReadError(t *testing.T) {
	m := NewMemory()
	boom := errors.New("connection refused")

	err := SeedFloors(context.Background(), m, Floor{
		Name: coresequence.BillNumber,
		Max:  func(context.Context) (int64, error) { return 0, boom },
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), coresequence.BillNumber)
}
