package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"bistro/internal/core/apperror"
)

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnavailable(tt.err))
		})
	}
}

func TestMapError(t *testing.T) {
	down := fmt.Errorf("begin: %w", &pgconn.PgError{Code: "08001"})
	assert.True(t, apperror.IsStorageUnavailable(MapError(down)))

	syntax := &pgconn.PgError{Code: "42601"}
	assert.Same(t, syntax, MapError(syntax))

	notFound := apperror.NewNotFound("order", 1)
	assert.Same(t, notFound, MapError(notFound))

	assert.NoError(t, MapError(nil))
}
