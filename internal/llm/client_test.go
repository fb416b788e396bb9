package llm

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
	"go.uber.org/zap"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
	"github.com/gmsas95/lifetrack/internal/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL
	return NewClient(opts, zap.NewNop(), metrics.New())
}

func TestClient_Models(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"models":[{"name":"qwen2.5-coder:latest"},{"name":"llama3"}]}`))
	}, Options{})

	models, err := c.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5-coder:latest", "llama3"}, models)
	assert.True(t, c.Available(context.Background()))
}

func TestClient_ModelsUnreadableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>ok</html>`))
	}, Options{})

	models, err := c.Models(context.Background())
	assert.Nil(t, models)
	assert.True(t, apperrors.Is(err, apperrors.ErrLLMResponse))
	assert.True(t, c.Available(context.Background()))
}

func TestClient_AvailableFalse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Options{})
	assert.False(t, c.Available(context.Background()))

	unreachable := NewClient(Options{BaseURL: "http://127.0.0.1:1"}, nil, metrics.New())
	assert.False(t, unreachable.Available(context.Background()))
}

func TestClient_HealthTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}, Options{HealthTimeout: 50 * time.Millisecond})

	start := time.Now()
	assert.False(t, c.Available(context.Background()))
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestClient_Generate(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen2.5-coder", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 0.7, req.Options.Temperature)
		assert.Equal(t, 500, req.Options.NumPredict)
		assert.Contains(t, req.Prompt, "Ngày hôm nay: 2025-03-12")
		assert.Contains(t, req.Prompt, "Người dùng: chi 50k ăn trưa")

		w.Write([]byte(`{"response":"  Đã ghi lại!  ","done":true}`))
	}, Options{})

	text, err := c.Generate(context.Background(), "chi 50k ăn trưa", now)
	require.NoError(t, err)
	assert.Equal(t, "Đã ghi lại!", text)
}

func TestClient_GenerateErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}, Options{})

	_, err := c.Complete(context.Background(), "xin chào")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLLMResponse))
	assert.Contains(t, err.Error(), "model not found")
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, Options{MaxFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := c.Complete(context.Background(), "hi")
		require.Error(t, err)
	}

	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLLMUnavailable))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"ok"}`))
	}, Options{RPM: 1, Burst: 1})

	_, err := c.Complete(context.Background(), "one")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "two")
	assert.True(t, apperrors.Is(err, apperrors.ErrRateLimited))
}

func TestOptions_Defaults(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://ollama:11434/"}, nil, nil)
	assert.Equal(t, "http://ollama:11434", c.opts.BaseURL)
	assert.Equal(t, "qwen2.5-coder", c.Model())
	assert.Equal(t, 2*time.Second, c.opts.HealthTimeout)
	assert.Equal(t, 60*time.Second, c.opts.Timeout)
}
