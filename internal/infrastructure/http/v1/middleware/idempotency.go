package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro/internal/core/apperror"
	"bistro/internal/infrastructure/storage/postgres"
	"bistro/pkg/logger"
)

// HeaderIdempotencyKey is set by clients that may retry a POST.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	maxIdempotencyBodyBytes = 1 << 20

	ctxIdempotencyKey   = "idempotency_key"
	ctxIdempotencyStore = "idempotency_store"
)

// IdempotencyStore is what the middleware needs from postgres.IdempotencyStore.
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, operation, requestHash string) (*postgres.IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, body any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, body any) error
	Release(ctx context.Context, key string) error
}

// Idempotency replays the stored response of a POST retried with the same key.
// Handlers complete the key through CompleteIdempotency; ErrorHandler fails it.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1))
		if err != nil {
			_ = c.Error(apperror.NewValidation("unreadable request body"))
			c.Abort()
			return
		}
		if len(body) > maxIdempotencyBodyBytes {
			appErr := apperror.NewValidation("request body too large for idempotency").
				WithDetail("max_bytes", maxIdempotencyBodyBytes)
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			_ = c.Error(appErr)
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		operation := c.Request.Method + " " + c.Request.URL.Path

		replay, err := store.AcquireKey(c.Request.Context(), key, operation, hex.EncodeToString(sum[:]))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if replay != nil {
			c.Header("Idempotent-Replayed", "true")
			c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		c.Set(ctxIdempotencyKey, key)
		c.Set(ctxIdempotencyStore, store)

		c.Next()

		// Errors are settled by ErrorHandler, which runs after this returns.
		if openKey(c) != "" && len(c.Errors) == 0 {
			releaseIdempotency(c)
		}
	}
}

// CompleteIdempotency records a successful response for replay.
func CompleteIdempotency(c *gin.Context, statusCode int, body any) {
	finishIdempotency(c, func(ctx context.Context, s IdempotencyStore, key string) error {
		return s.CompleteKey(ctx, key, statusCode, "application/json; charset=utf-8", body)
	})
}

// failIdempotency records an error response. When storage was unavailable
// the key is released instead, so a retry gets a fresh attempt.
func failIdempotency(c *gin.Context, statusCode int, body ErrorResponse) {
	if statusCode == http.StatusServiceUnavailable {
		releaseIdempotency(c)
		return
	}
	finishIdempotency(c, func(ctx context.Context, s IdempotencyStore, key string) error {
		return s.FailKey(ctx, key, statusCode, "application/json; charset=utf-8", body)
	})
}

func releaseIdempotency(c *gin.Context) {
	finishIdempotency(c, func(ctx context.Context, s IdempotencyStore, key string) error {
		return s.Release(ctx, key)
	})
}

// openKey returns the idempotency key this request still has to settle.
func openKey(c *gin.Context) string {
	return c.GetString(ctxIdempotencyKey)
}

func finishIdempotency(c *gin.Context, fn func(ctx context.Context, s IdempotencyStore, key string) error) {
	key := openKey(c)
	if key == "" {
		return
	}
	v, _ := c.Get(ctxIdempotencyStore)
	store, ok := v.(IdempotencyStore)
	if !ok {
		return
	}
	c.Set(ctxIdempotencyKey, "")
	if err := fn(c.Request.Context(), store, key); err != nil {
		logger.Warn(c.Request.Context(), "settle idempotency key failed", "error", err)
	}
}
