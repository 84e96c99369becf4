package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floreboard/internal/llm"
	"floreboard/internal/settings"
)

func newDashScopeTestServer(t *testing.T, statuses []string, finalURL string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "enable", r.Header.Get("X-DashScope-Async"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		params := payload["parameters"].(map[string]any)
		assert.Equal(t, "1024*1024", params["size"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": map[string]any{"task_id": "task-123"},
		})
	})
	mux.HandleFunc("/tasks/task-123", func(w http.ResponseWriter, _ *http.Request) {
		idx := int(polls.Add(1)) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		status := statuses[idx]

		output := map[string]any{"task_status": status}
		if status == "SUCCEEDED" {
			output["results"] = []map[string]string{{"url": finalURL}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"output": output})
	})

	return httptest.NewServer(mux), &polls
}

func newTestDashScopeGenerator(srv *httptest.Server) *DashScopeGenerator {
	gen := NewDashScopeGenerator(settings.APIConfig{APIKey: "key", ImageModel: "wanx-v1"})
	gen.SubmitURL = srv.URL + "/submit"
	gen.TasksURL = srv.URL + "/tasks"
	gen.PollInterval = time.Millisecond
	return gen
}

func TestDashScopeGenerateSucceedsAfterPolling(t *testing.T) {
	srv, polls := newDashScopeTestServer(t,
		[]string{"PENDING", "RUNNING", "RUNNING", "SUCCEEDED"},
		"https://img.example.com/final.png")
	defer srv.Close()

	gen := newTestDashScopeGenerator(srv)
	ref, err := gen.Generate(context.Background(), "a bouquet")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/final.png", ref.URL)
	assert.Equal(t, int32(4), polls.Load())
}

func TestDashScopeGenerateTaskFailed(t *testing.T) {
	srv, _ := newDashScopeTestServer(t, []string{"RUNNING", "FAILED"}, "")
	defer srv.Close()

	gen := newTestDashScopeGenerator(srv)
	_, err := gen.Generate(context.Background(), "a bouquet")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestDashScopeGeneratePollTimeout(t *testing.T) {
	srv, polls := newDashScopeTestServer(t, []string{"RUNNING"}, "")
	defer srv.Close()

	gen := newTestDashScopeGenerator(srv)
	gen.MaxAttempts = 5

	_, err := gen.Generate(context.Background(), "a bouquet")
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, int32(5), polls.Load())
}

func TestDashScopeGenerateContextCancelled(t *testing.T) {
	srv, _ := newDashScopeTestServer(t, []string{"RUNNING"}, "")
	defer srv.Close()

	gen := newTestDashScopeGenerator(srv)
	gen.PollInterval = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "a bouquet")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDashScopeSubmitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	gen := NewDashScopeGenerator(settings.APIConfig{APIKey: "key", ImageModel: "wanx-v1"})
	gen.SubmitURL = srv.URL
	gen.PollInterval = time.Millisecond

	_, err := gen.Generate(context.Background(), "a bouquet")

	var providerErr *llm.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
}

func TestDashScopeMissingKey(t *testing.T) {
	gen := NewDashScopeGenerator(settings.APIConfig{ImageModel: "wanx-v1"})
	_, err := gen.Generate(context.Background(), "a bouquet")
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
}
