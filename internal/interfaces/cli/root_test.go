package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with the given args and returns stdout, stderr, and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "protoscribe")
	assert.Contains(t, out, "dev")
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	_, _, err := execute(t, "frobnicate")
	assert.Error(t, err)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"upload", "list", "get", "delete", "sample", "analyze", "score", "guidelines", "check"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestListCommand_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/protocols", r.URL.Path)
		w.Write([]byte(`{"protocols":[{"id":"p-1","title":"A Trial","status":"processed","word_count":120}],"total":1,"page":1,"page_size":20}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "list", "--server", srv.URL, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 1`)
}

func TestListCommand_TextOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"protocols":[{"id":"p-1","title":"A Trial","status":"processed","word_count":120}],"total":1,"page":1,"page_size":20}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "list", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "A Trial")
	assert.Contains(t, out, "total: 1")
}

func TestScoreCommand_TextOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analysis/p-1/score", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"protocol_id":    "p-1",
			"overall_score":  85.7,
			"consort_score":  80.0,
			"spirit_score":   90.0,
			"total_items":    7,
			"passed_items":   6,
			"analysis_count": 2,
		})
	}))
	defer srv.Close()

	out, _, err := execute(t, "score", "p-1", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "overall: 85.7%")
	assert.Contains(t, out, "6/7 items")
}

func TestAnalyzeCommand_RejectsUnknownType(t *testing.T) {
	_, _, err := execute(t, "analyze", "p-1", "--type", "mystery", "--server", "http://localhost:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown analysis type")
}

func TestGuidelinesCommand_FetchesNamed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/guidelines/consort", r.URL.Path)
		w.Write([]byte(`{"name":"CONSORT","version":"2010","items":[{"id":"1a","section":"Title","description":"Identification as a randomised trial in the title"}]}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "guidelines", "consort", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "CONSORT 2010")
	assert.Contains(t, out, "1a")
}

func TestFormatHelpers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"n": 1}))
	assert.Contains(t, buf.String(), `"n": 1`)

	buf.Reset()
	require.NoError(t, printText(&buf, "hello"))
	assert.Equal(t, "hello\n", buf.String())
}
