package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bistro/internal/core/apperror"
)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyPending IdempotencyStatus = "pending"
	IdempotencySuccess IdempotencyStatus = "success"
	IdempotencyFailed  IdempotencyStatus = "failed"
)

// staleAfter is how long a pending key may stay untouched before a retry may reclaim it.
const staleAfter = time.Minute

// IdempotencyReplay is the stored HTTP response of a finished request.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyStore records POST results keyed by the client's Idempotency-Key,
// so a retried order or bill creation replays instead of drawing a new number.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
	now       func() time.Time
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		txManager: txManager,
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AcquireKey claims key for operation.
// Returns:
//   - (nil, nil) when the caller owns the key and must run the request
//   - (replay, nil) when the request already finished
//   - (nil, error) when the key is in flight or was used for another request
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, operation, requestHash string) (*IdempotencyReplay, error) {
	now := s.now()
	q := s.txManager.GetQuerier(ctx)

	var (
		inserted    bool
		storedOp    string
		storedHash  string
		status      IdempotencyStatus
		response    []byte
		statusCode  int
		contentType string
		updatedAt   time.Time
	)
	err := q.QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $5, $6)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			expires_at = GREATEST(sys_idempotency.expires_at, EXCLUDED.expires_at)
		RETURNING (xmax = 0), operation, request_hash, status, response, response_status, response_content_type, updated_at
	`, key, operation, IdempotencyPending, requestHash, now, now.Add(s.ttl)).Scan(
		&inserted, &storedOp, &storedHash, &status, &response, &statusCode, &contentType, &updatedAt,
	)
	if err != nil {
		return nil, MapError(fmt.Errorf("acquire idempotency key: %w", err))
	}

	if inserted {
		return nil, nil
	}

	if storedOp != operation || storedHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("operation", operation)
	}

	switch status {
	case IdempotencySuccess, IdempotencyFailed:
		return &IdempotencyReplay{
			StatusCode:  replayStatus(statusCode),
			ContentType: replayContentType(contentType),
			Body:        response,
		}, nil
	}

	if now.Sub(updatedAt) <= staleAfter {
		return nil, apperror.NewIdempotencyInProgress(key)
	}

	// The previous attempt likely died mid-request; take the key over.
	tag, err := q.Exec(ctx, `
		UPDATE sys_idempotency SET updated_at = $1
		WHERE idempotency_key = $2 AND status = $3 AND updated_at = $4
	`, now, key, IdempotencyPending, updatedAt)
	if err != nil {
		return nil, MapError(fmt.Errorf("reclaim idempotency key: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NewIdempotencyInProgress(key)
	}
	return nil, nil
}

// CompleteKey stores a successful response for replay.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, body any) error {
	return s.finish(ctx, key, IdempotencySuccess, statusCode, contentType, body)
}

// FailKey stores a failed response for replay.
func (s *IdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, body any) error {
	return s.finish(ctx, key, IdempotencyFailed, statusCode, contentType, body)
}

func (s *IdempotencyStore) finish(ctx context.Context, key string, status IdempotencyStatus, statusCode int, contentType string, body any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		payload = b
	}

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1, response = $2, response_status = $3, response_content_type = $4, updated_at = $5
		WHERE idempotency_key = $6
	`, status, payload, statusCode, contentType, s.now(), key)
	if err != nil {
		return MapError(fmt.Errorf("finish idempotency key: %w", err))
	}
	return nil
}

// Release forgets a pending key so the client may retry it, used when the
// request failed before producing a response worth replaying.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE idempotency_key = $1 AND status = $2`,
		key, IdempotencyPending)
	return MapError(err)
}

// CleanupExpired removes expired records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE expires_at < $1`, s.now())
	if err != nil {
		return 0, MapError(err)
	}
	return tag.RowsAffected(), nil
}

func replayStatus(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func replayContentType(ct string) string {
	if ct == "" {
		return "application/json"
	}
	return ct
}
