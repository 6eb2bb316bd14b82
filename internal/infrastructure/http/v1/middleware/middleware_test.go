package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/core/apperror"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("secret detail")) })
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.NewInvalidAdjustment("discount exceeds bill"))
	})
	return r
}

func serve(t *testing.T, r *gin.Engine, path string, headers map[string]string) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestRecovery_RendersInternalError(t *testing.T) {
	w, body := serve(t, newEngine(), "/panic", map[string]string{HeaderRequestID: "req-42"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "req-42", body.Details["request_id"])
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()

	w, body := serve(t, r, "/plain", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	w, body = serve(t, r, "/app", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeInvalidAdjustment, body.Code)
	assert.Equal(t, "discount exceeds bill", body.Message)
}
