package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatch(t *testing.T) {
	patch, err := parsePatch([]string{"name=Alice", "balance=12.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Alice", "balance": 12.5}, patch)

	_, err = parsePatch([]string{"balance=abc"})
	require.Error(t, err)
	_, err = parsePatch([]string{"owner=bob"})
	require.Error(t, err)
	_, err = parsePatch([]string{"name"})
	require.Error(t, err)
}

func TestClientRun(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		gotBody = nil
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &gotBody)
		}
		if r.URL.Path == "/accounts/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := &client{baseURL: srv.URL, http: srv.Client()}
	ctx := context.Background()

	require.NoError(t, c.run(ctx, "create", []string{"Alice", "ACC-1", "100"}))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/accounts", gotPath)
	assert.Equal(t, map[string]any{"name": "Alice", "number": "ACC-1", "balance": 100.0}, gotBody)

	require.NoError(t, c.run(ctx, "total", []string{"2"}))
	assert.Equal(t, "/balances/total", gotPath)
	assert.Equal(t, "batch_size=2", gotQuery)

	require.NoError(t, c.run(ctx, "update", []string{"abc", "number=N-2"}))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, map[string]any{"number": "N-2"}, gotBody)

	require.Error(t, c.run(ctx, "get", []string{"missing"}))
	require.Error(t, c.run(ctx, "create", []string{"only-name"}))
	require.Error(t, c.run(ctx, "bogus", nil))
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("ACCOUNTS_API_URL", "http://accounts.internal:8080/")
	t.Setenv("ACCOUNTS_API_TIMEOUT", "5s")
	t.Setenv("ACCOUNTS_BATCH_SIZE", "3")

	c := newClient()
	assert.Equal(t, "http://accounts.internal:8080", c.baseURL)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.Equal(t, 3, c.batchSize)

	t.Setenv("ACCOUNTS_BATCH_SIZE", "many")
	assert.Zero(t, newClient().batchSize)
}

func TestClientTotalUsesConfiguredBatchSize(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"total_balance":825}`))
	}))
	defer srv.Close()

	c := &client{baseURL: srv.URL, http: srv.Client(), batchSize: 3}
	require.NoError(t, c.run(context.Background(), "total", nil))
	assert.Equal(t, "batch_size=3", gotQuery)

	require.NoError(t, c.run(context.Background(), "total", []string{"7"}))
	assert.Equal(t, "batch_size=7", gotQuery)

	c.batchSize = 0
	require.NoError(t, c.run(context.Background(), "total", nil))
	assert.Empty(t, gotQuery)
}
