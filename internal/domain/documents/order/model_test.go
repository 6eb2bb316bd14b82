package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/core/apperror"
	"bistro/internal/core/types"
)

func TestOrder_Recalculate(t *testing.T) {
	o := NewOrder()
	o.AddItem("Paneer Tikka", types.MustMoney("250.00"), 2, "")
	o.AddItem("Lassi", types.MustMoney("80.50"), 1, "no sugar")

	require.NoError(t, o.Recalculate())

	assert.Equal(t, "580.5", o.Subtotal.String())
	assert.Equal(t, "104.49", o.Tax.String())
	assert.Equal(t, "684.99", o.Total.String())
	assert.Equal(t, 2, o.Items[1].LineNo)
}

func TestOrder_RecalculateKeepsTotalsOnError(t *testing.T) {
	o := NewOrder()
	o.AddItem("Dal", types.MustMoney("100"), 1, "")
	require.NoError(t, o.Recalculate())

	o.AddItem("Broken", types.MustMoney("10"), 0, "")
	err := o.Recalculate()

	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidItem))
	assert.Equal(t, "118", o.Total.String())
}

func TestOrder_SetItemsRenumbers(t *testing.T) {
	o := NewOrder()
	o.SetItems([]Item{
		{LineNo: 7, Name: "Naan", Price: types.MustMoney("40"), Quantity: 3},
		{LineNo: 9, Name: "Rice", Price: types.MustMoney("60"), Quantity: 1},
	})

	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, o.Items[0].LineNo)
	assert.Equal(t, 2, o.Items[1].LineNo)
	assert.False(t, o.Items[0].LineID == o.Items[1].LineID)
}

func TestOrder_Validate(t *testing.T) {
	ctx := context.Background()

	o := NewOrder()
	o.AddItem("  ", types.MustMoney("1"), 1, "")
	err := o.Validate(ctx)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	o = NewOrder()
	o.TableNumber = -1
	assert.Error(t, o.Validate(ctx))

	o = NewOrder()
	o.Status = "eaten"
	assert.Error(t, o.Validate(ctx))

	assert.NoError(t, NewOrder().Validate(ctx))
}

func TestOrder_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		billed  bool
		wantErr bool
	}{
		{"pending to preparing", StatusPending, StatusPreparing, false, false},
		{"preparing to served", StatusPreparing, StatusServed, false, false},
		{"served to completed", StatusServed, StatusCompleted, false, false},
		{"pending to cancelled", StatusPending, StatusCancelled, false, false},
		{"served back to pending", StatusServed, StatusPending, false, true},
		{"pending cannot skip preparing", StatusPending, StatusServed, false, true},
		{"completed is final", StatusCompleted, StatusCancelled, false, true},
		{"billed cannot be cancelled", StatusServed, StatusCancelled, true, true},
		{"unknown status", StatusPending, Status("eaten"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrder()
			o.Status = tt.from
			o.Billed = tt.billed

			err := o.TransitionTo(tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.from, o.Status)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.to, o.Status)
		})
	}
}

func TestOrder_CanModify(t *testing.T) {
	o := NewOrder()
	assert.NoError(t, o.CanModify())

	o.Billed = true
	assert.Error(t, o.CanModify())

	o = NewOrder()
	o.Status = StatusCancelled
	assert.Error(t, o.CanModify())
}

func TestOrder_DisplayNumber(t *testing.T) {
	o := NewOrder()
	o.Number = 42
	assert.Equal(t, "ORD-00042", o.DisplayNumber())
}
