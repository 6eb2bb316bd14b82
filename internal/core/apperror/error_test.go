package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_UnwrapThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("next orderNumber: %w", NewStorageUnavailable(cause))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeStorageUnavailable, appErr.Code)
	assert.True(t, IsStorageUnavailable(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(wrapped))
}

func TestAppError_Details(t *testing.T) {
	err := NewInvalidItem(3, "quantity must be positive").WithDetail("field", "quantity")

	assert.Equal(t, 3, err.Details["lineNo"])
	assert.Equal(t, "quantity", err.Details["field"])
	assert.Equal(t, "INVALID_ITEM: quantity must be positive", err.Error())
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.False(t, IsNotFound(errors.New("boom")))
}
