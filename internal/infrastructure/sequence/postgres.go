// Package sequence provides sequence.Generator backends.
//
// Every backend advances a counter with one atomic primitive of its store;
// none of them reads the current value to compute the next one.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bistro/internal/core/apperror"
	coresequence "bistro/internal/core/sequence"
)

var tracer = otel.Tracer("bistro/sequence")

// Querier is the part of pgx the Postgres backend needs.
// *pgxpool.Pool satisfies it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres keeps counters in the sys_sequences table.
//
// Next runs on the pool, outside any business transaction: a drawn number
// stays consumed even when the document that asked for it is rolled back.
type Postgres struct {
	q Querier
}

var _ coresequence.Generator = (*Postgres)(nil)

// NewPostgres creates a Postgres-backed generator.
func NewPostgres(q Querier) *Postgres {
	return &Postgres{q: q}
}

const (
	nextSQL = `
		INSERT INTO sys_sequences (key, current_val, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (key) DO UPDATE
			SET current_val = sys_sequences.current_val + 1, updated_at = NOW()
		RETURNING current_val`

	currentSQL = `SELECT current_val FROM sys_sequences WHERE key = $1`

	seedSQL = `
		INSERT INTO sys_sequences (key, current_val, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
			SET current_val = GREATEST(sys_sequences.current_val, EXCLUDED.current_val), updated_at = NOW()
		RETURNING current_val`
)

// Next implements sequence.Generator.
func (p *Postgres) Next(ctx context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	ctx, span := startSpan(ctx, "sequence.next", name, "postgres")
	defer span.End()

	var n int64
	if err := p.q.QueryRow(ctx, nextSQL, name).Scan(&n); err != nil {
		return 0, fail(span, fmt.Errorf("next %s: %w", name, err))
	}
	span.SetAttributes(attribute.Int64("sequence.value", n))
	return n, nil
}

// Current implements sequence.Generator.
func (p *Postgres) Current(ctx context.Context, name string) (int64, error) {
	if err := coresequence.ValidateName(name); err != nil {
		return 0, err
	}

	var n int64
	err := p.q.QueryRow(ctx, currentSQL, name).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperror.NewStorageUnavailable(fmt.Errorf("current %s: %w", name, err))
	}
	return n, nil
}

// Seed implements sequence.Generator.
func (p *Postgres) Seed(ctx context.Context, name string, value int64) error {
	if err := coresequence.ValidateSeed(name, value); err != nil {
		return err
	}

	ctx, span := startSpan(ctx, "sequence.seed", name, "postgres")
	defer span.End()

	var n int64
	if err := p.q.QueryRow(ctx, seedSQL, name, value).Scan(&n); err != nil {
		return fail(span, fmt.Errorf("seed %s: %w", name, err))
	}
	return nil
}

func startSpan(ctx context.Context, op, name, backend string) (context.Context, trace.Span) {
	return tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("sequence.name", name),
		attribute.String("sequence.backend", backend),
	))
}

// fail records err on span and reports it as StorageUnavailable.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return apperror.NewStorageUnavailable(err)
}
