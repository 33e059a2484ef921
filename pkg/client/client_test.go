package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
}

func TestNewClient_Options(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	c, err := NewClient("http://localhost:8080",
		WithHTTPClient(hc),
		WithRetryMax(1),
		WithRetryWait(10*time.Millisecond, 20*time.Millisecond),
		WithUserAgent("custom-agent/1.0"),
	)
	require.NoError(t, err)
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, 1, c.retryMax)
	assert.Equal(t, 10*time.Millisecond, c.retryWaitMin)
	assert.Equal(t, "custom-agent/1.0", c.userAgent)
}

func TestClient_SetsStandardHeaders(t *testing.T) {
	var gotUA, gotAccept, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.get(context.Background(), "/ping", nil))

	assert.Contains(t, gotUA, "protoscribe-go-sdk/")
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_ParsesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"PROTO_001","message":"protocol not found"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = c.get(context.Background(), "/missing", nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.False(t, apiErr.IsServerError())
	assert.Equal(t, "PROTO_001", apiErr.Code)
	assert.Equal(t, "protocol not found", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Contains(t, apiErr.Error(), "PROTO_001")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL,
		WithRetryMax(3),
		WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)
	require.NoError(t, err)

	var result map[string]bool
	require.NoError(t, c.get(context.Background(), "/flaky", &result))
	assert.True(t, result["ok"])
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"COMMON_002","message":"bad request"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(3), WithRetryWait(time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)

	err = c.get(context.Background(), "/bad", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_HonorsRetryAfter(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(2), WithRetryWait(time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, c.get(context.Background(), "/limited", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(5), WithRetryWait(time.Second, 2*time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = c.get(ctx, "/slow", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_LazySubClients(t *testing.T) {
	c, err := NewClient("http://localhost:8080")
	require.NoError(t, err)

	assert.Same(t, c.Protocols(), c.Protocols())
	assert.Same(t, c.Analysis(), c.Analysis())
	assert.Same(t, c.Guidelines(), c.Guidelines())
}
