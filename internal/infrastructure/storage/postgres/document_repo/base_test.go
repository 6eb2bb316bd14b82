package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/core/apperror"
	"bistro/internal/core/id"
	"bistro/internal/core/types"
	"bistro/internal/domain"
	"bistro/internal/domain/documents/bill"
	"bistro/internal/domain/documents/order"
)

func TestParseOrderBy(t *testing.T) {
	r := NewOrderRepo(nil)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "date DESC, number DESC", false},
		{"number", "number ASC", false},
		{"-number", "number DESC", false},
		{"+total", "total ASC, number ASC", false},
		{"-date", "date DESC, number DESC", false},
		{"items", "", true},
		{"-", "", true},
		{"total; DROP TABLE orders", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.parseOrderBy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderColumns(t *testing.T) {
	r := NewOrderRepo(nil)

	assert.Contains(t, r.selectCols, "table_number")
	assert.Contains(t, r.selectCols, "subtotal")
	assert.NotContains(t, r.selectCols, "items")
}

func TestApplyOrderFilter(t *testing.T) {
	r := NewOrderRepo(nil)
	status := order.StatusServed
	table := 7
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := applyOrderFilter(r.baseSelect(), order.ListFilter{
		ListFilter:  domain.DefaultListFilter(),
		Status:      &status,
		TableNumber: &table,
		DateFrom:    &from,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM orders WHERE status = $1 AND table_number = $2 AND date >= $3")
	assert.Equal(t, []any{"served", 7, from}, args)
}

func TestApplyBillFilter(t *testing.T) {
	r := NewBillRepo(nil)
	paid := bill.PaymentPaid
	method := bill.PaymentCash

	sql, args, err := applyBillFilter(r.baseSelect(), bill.ListFilter{
		PaymentStatus: &paid,
		PaymentMethod: &method,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM bills WHERE payment_status = $1 AND payment_method = $2")
	assert.Equal(t, []any{"paid", "cash"}, args)
}

func TestItemRows_KeepSubCentPrice(t *testing.T) {
	docID := id.New()
	items := []order.Item{{LineID: id.New(), LineNo: 1, Name: "Chai", Price: types.MustMoney("33.333"), Quantity: 3}}

	rows := itemRows(docID, items)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(orderItemColumns)+1)

	assert.Equal(t, docID, rows[0][0])
	price, ok := rows[0][4].(types.Money)
	require.True(t, ok)
	assert.Equal(t, "33.333", price.String())
}

func TestMaxNumberQuery(t *testing.T) {
	sql, args, err := NewBillRepo(nil).maxNumberQuery().ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT COALESCE(MAX(number), 0) FROM bills", sql)
	assert.Empty(t, args)
}
