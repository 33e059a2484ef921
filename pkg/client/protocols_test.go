package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, WithRetryMax(0))
	require.NoError(t, err)
	return c
}

func TestProtocols_Upload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/protocols/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "trial.txt", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "A Randomized Trial", string(data))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Protocol{ID: "p-1", Filename: "trial.txt", Status: "processed"})
	})

	p, err := c.Protocols().Upload(context.Background(), "trial.txt", []byte("A Randomized Trial"))
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "processed", p.Status)
}

func TestProtocols_UploadValidation(t *testing.T) {
	c, err := NewClient("http://localhost:8080")
	require.NoError(t, err)

	_, err = c.Protocols().Upload(context.Background(), "", []byte("x"))
	assert.Error(t, err)

	_, err = c.Protocols().Upload(context.Background(), "trial.txt", nil)
	assert.Error(t, err)
}

func TestProtocols_CreateSample(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/protocols/create-sample", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Protocol{ID: "p-2", Filename: "sample_protocol.txt"})
	})

	p, err := c.Protocols().CreateSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sample_protocol.txt", p.Filename)
}

func TestProtocols_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/protocols", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		assert.Equal(t, "processed", r.URL.Query().Get("status"))
		json.NewEncoder(w).Encode(ProtocolList{
			Protocols: []Protocol{{ID: "p-1"}},
			Total:     11,
			Page:      2,
			PageSize:  10,
		})
	})

	list, err := c.Protocols().List(context.Background(), 2, 10, "processed")
	require.NoError(t, err)
	assert.Equal(t, int64(11), list.Total)
	assert.Len(t, list.Protocols, 1)
}

func TestProtocols_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/protocols/p-1", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("include_content"))
		json.NewEncoder(w).Encode(Protocol{ID: "p-1", Content: "full text"})
	})

	p, err := c.Protocols().Get(context.Background(), "p-1", true)
	require.NoError(t, err)
	assert.Equal(t, "full text", p.Content)

	_, err = c.Protocols().Get(context.Background(), "", false)
	assert.Error(t, err)
}

func TestProtocols_Delete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/protocols/p-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "protocol deleted"})
	})

	require.NoError(t, c.Protocols().Delete(context.Background(), "p-1"))
	assert.Error(t, c.Protocols().Delete(context.Background(), ""))
}
