// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"

	"bistro/internal/core/apperror"
	"bistro/internal/core/id"
	"bistro/internal/core/sequence"
	"bistro/internal/domain"
	"bistro/internal/infrastructure/storage/postgres"
)

const uniqueViolation = "23505"

// BaseDocumentRepo provides CRUD for numbered documents with soft delete and
// optimistic locking. T is a pointer to a struct embedding entity.Document.
type BaseDocumentRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](
	txm *postgres.TxManager,
	tableName string,
	entityName string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a squirrel builder with $n placeholders.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts a new document.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in %s", r.entityName)
	}

	values := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := r.Builder().Insert(r.tableName).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.writeError("insert", err)
	}
	return nil
}

// Update writes all mutable columns, guarded by the version the caller read.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)

	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("%s has no id column", r.entityName)
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("%s has no int version column", r.entityName)
	}

	values := make(map[string]any, len(r.selectCols))
	for _, col := range postgres.ColumnsExcept(r.selectCols, "id", "created_at", "version", "updated_at") {
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entityID, "version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.writeError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.entityName, entityID)
	}
	return nil
}

// Delete soft-deletes a live document.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set("deletion_mark", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID, "deletion_mark": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.writeError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.selectCols...).From(r.tableName)
}

// getOne returns the single live document matching where.
func (r *BaseDocumentRepo[T]) getOne(ctx context.Context, where squirrel.Sqlizer, key any) (T, error) {
	entity := r.newFn()

	sql, args, err := r.baseSelect().
		Where(where).
		Where(squirrel.Eq{"deletion_mark": false}).
		ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, key)
		}
		return entity, postgres.MapError(fmt.Errorf("get %s: %w", r.entityName, err))
	}
	return entity, nil
}

// GetByID retrieves a live document by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.getOne(ctx, squirrel.Eq{"id": entityID}, entityID.String())
}

// GetByNumber retrieves a live document by its sequence number.
func (r *BaseDocumentRepo[T]) GetByNumber(ctx context.Context, number int64) (T, error) {
	return r.getOne(ctx, squirrel.Eq{"number": number}, number)
}

// MaxNumber returns the highest number ever issued in the table, deleted
// documents included, or 0 when it is empty.
func (r *BaseDocumentRepo[T]) MaxNumber(ctx context.Context) (int64, error) {
	sql, args, err := r.maxNumberQuery().ToSql()
	if err != nil {
		return 0, fmt.Errorf("build max number: %w", err)
	}

	var n int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(fmt.Errorf("max %s number: %w", r.entityName, err))
	}
	return n, nil
}

func (r *BaseDocumentRepo[T]) maxNumberQuery() squirrel.SelectBuilder {
	return r.Builder().Select("COALESCE(MAX(number), 0)").From(r.tableName)
}

// list applies the common filter, lets where add document-specific
// conditions, and reads count and page in one read-only transaction.
func (r *BaseDocumentRepo[T]) list(
	ctx context.Context,
	filter domain.ListFilter,
	where func(q squirrel.SelectBuilder) squirrel.SelectBuilder,
) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Items:  make([]T, 0),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where(squirrel.Eq{"number": sequence.Parse(s)})
	}
	if where != nil {
		q = where(q)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	q = q.OrderBy(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		querier := r.querier(ctx)
		if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
			return fmt.Errorf("select: %w", err)
		}
		return nil
	})
	if err != nil {
		return result, postgres.MapError(fmt.Errorf("list %s: %w", r.entityName, err))
	}
	return result, nil
}

// parseOrderBy turns "-date" / "+number" / "total" into a whitelisted ORDER BY clause.
// Ties are broken by number so paging is stable.
func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return "date DESC, number DESC", nil
	}

	direction := "ASC"
	field := orderBy
	switch {
	case strings.HasPrefix(orderBy, "-"):
		direction = "DESC"
		field = orderBy[1:]
	case strings.HasPrefix(orderBy, "+"):
		field = orderBy[1:]
	}
	field = strings.TrimSpace(field)

	if field == "" || !lo.Contains(r.selectCols, field) {
		return "", apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", orderBy)
	}

	if field == "number" {
		return "number " + direction, nil
	}
	return field + " " + direction + ", number " + direction, nil
}

// writeError maps a unique violation to Conflict and unavailability to StorageUnavailable.
func (r *BaseDocumentRepo[T]) writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.NewConflict(fmt.Sprintf("%s already exists", r.entityName)).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return postgres.MapError(fmt.Errorf("%s %s: %w", op, r.entityName, err))
}
