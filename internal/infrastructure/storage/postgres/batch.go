package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopyRows bulk inserts rows with the COPY protocol, inside the transaction
// carried by ctx when there is one.
func (m *TxManager) CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var c copier = m.pool
	if t := m.GetTx(ctx); t != nil {
		c = t
	}

	n, err := c.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, MapError(fmt.Errorf("copy into %s: %w", table, err))
	}
	if n != int64(len(rows)) {
		return n, fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, len(rows))
	}
	return n, nil
}
