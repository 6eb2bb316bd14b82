package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"bistro/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the schema. Every statement is idempotent, so it runs on each start.
func Migrate(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return MapError(fmt.Errorf("apply schema: %w", err))
	}
	logger.Info(ctx, "database schema applied")
	return nil
}
