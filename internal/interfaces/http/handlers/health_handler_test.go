package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/protoscribe/pkg/errors"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.2.3")

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestHealthHandler_ReadinessNoCheckers(t *testing.T) {
	h := NewHealthHandler("test")

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestHealthHandler_ReadinessWithFailingChecker(t *testing.T) {
	h := NewHealthHandler("test",
		HealthCheckFunc{ComponentName: "database", CheckFunc: func(context.Context) error { return nil }},
		HealthCheckFunc{ComponentName: "cache", CheckFunc: func(context.Context) error {
			return errors.New(errors.ErrCodeCacheError, "connection refused")
		}},
	)

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status     string                    `json:"status"`
		Components map[string]ComponentCheck `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "healthy", body.Components["database"].Status)
	assert.Equal(t, "unhealthy", body.Components["cache"].Status)
	assert.NotEmpty(t, body.Components["cache"].Error)
}

func TestHealthHandler_Detailed(t *testing.T) {
	h := NewHealthHandler("test",
		HealthCheckFunc{ComponentName: "storage", CheckFunc: func(context.Context) error { return nil }},
	)

	rec := httptest.NewRecorder()
	h.Detailed(rec, httptest.NewRequest(http.MethodGet, "/healthz/detail", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), "storage")
}
