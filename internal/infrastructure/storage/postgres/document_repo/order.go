package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/samber/lo"

	"bistro/internal/core/id"
	"bistro/internal/domain"
	"bistro/internal/domain/documents/order"
	"bistro/internal/infrastructure/storage/postgres"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"
)

var orderItemColumns = []string{"line_id", "line_no", "name", "price", "quantity", "notes"}

// OrderRepo implements order.Repository.
type OrderRepo struct {
	*BaseDocumentRepo[*order.Order]
}

var _ order.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			ordersTable,
			"order",
			postgres.ExtractDBColumns[order.Order](),
			func() *order.Order { return &order.Order{} },
		),
	}
}

// GetItems retrieves the lines of an order in line order.
func (r *OrderRepo) GetItems(ctx context.Context, docID id.ID) ([]order.Item, error) {
	sql, args, err := r.Builder().
		Select(orderItemColumns...).
		From(orderItemsTable).
		Where(squirrel.Eq{"order_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]order.Item, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, postgres.MapError(fmt.Errorf("get order items: %w", err))
	}
	return items, nil
}

// SaveItems replaces the lines of an order.
func (r *OrderRepo) SaveItems(ctx context.Context, docID id.ID, items []order.Item) error {
	querier := r.querier(ctx)

	if _, err := querier.Exec(ctx, "DELETE FROM "+orderItemsTable+" WHERE order_id = $1", docID); err != nil {
		return postgres.MapError(fmt.Errorf("delete order items: %w", err))
	}
	if _, err := r.txm.CopyRows(ctx, orderItemsTable, append([]string{"order_id"}, orderItemColumns...), itemRows(docID, items)); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// itemRows lays items out in orderItemColumns order, prices untouched.
func itemRows(docID id.ID, items []order.Item) [][]any {
	return lo.Map(items, func(item order.Item, _ int) []any {
		return []any{docID, item.LineID, item.LineNo, item.Name, item.Price, item.Quantity, item.Notes}
	})
}

// List retrieves orders with filtering.
func (r *OrderRepo) List(ctx context.Context, filter order.ListFilter) (domain.ListResult[*order.Order], error) {
	return r.list(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		return applyOrderFilter(q, filter)
	})
}

func applyOrderFilter(q squirrel.SelectBuilder, filter order.ListFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.TableNumber != nil {
		q = q.Where(squirrel.Eq{"table_number": *filter.TableNumber})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"date": *filter.DateTo})
	}
	return q
}
