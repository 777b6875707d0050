package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidlu/backend/internal/config"
	"github.com/rapidlu/backend/internal/usage"
)

type stubProvider struct {
	name    string
	fails   int
	content string

	mu     sync.Mutex
	calls  int
	models []string
	seen   []ChatRequest
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Models() []string {
	if s.models != nil {
		return s.models
	}
	return []string{s.name + "-model"}
}

func (s *stubProvider) ChatCompletion(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.seen = append(s.seen, req)
	if s.calls <= s.fails {
		return nil, errors.New("rate limited")
	}
	return &ChatResponse{Provider: s.name, Model: req.Model, Content: s.content, InputTokens: 10, OutputTokens: 5}, nil
}

type memUsage struct {
	mu      sync.Mutex
	entries []usage.Entry
}

func (m *memUsage) Record(_ context.Context, e usage.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func noBackoff(int) time.Duration { return 0 }

func TestGateway_NoProviders(t *testing.T) {
	g := NewGateway(config.LLMConfig{DefaultProvider: "openai"})
	assert.False(t, g.Available())

	_, err := g.Chat(context.Background(), ChatRequest{})
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestGateway_RetriesThenSucceeds(t *testing.T) {
	p := &stubProvider{name: "openai", fails: 2, content: "ok"}
	rec := &memUsage{}
	g := NewGateway(
		config.LLMConfig{DefaultProvider: "openai", DefaultModel: "gpt-3.5-turbo", MaxRetries: 2},
		WithProvider(p), WithBackoff(noBackoff), WithUsageRecorder(rec),
	)

	resp, err := g.Chat(context.Background(), ChatRequest{Endpoint: "summarize"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, p.calls)
	assert.Equal(t, "gpt-3.5-turbo", p.seen[0].Model)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, usage.KindLLM, rec.entries[0].Kind)
	assert.Equal(t, "summarize", rec.entries[0].Endpoint)
	assert.Equal(t, 10, rec.entries[0].InputTokens)
}

func TestGateway_FallsBackAfterRetries(t *testing.T) {
	primary := &stubProvider{name: "openai", fails: 100}
	fallback := &stubProvider{name: "anthropic", content: "from fallback"}
	g := NewGateway(
		config.LLMConfig{DefaultProvider: "openai", DefaultModel: "gpt-3.5-turbo", FallbackProvider: "anthropic", MaxRetries: 1},
		WithProvider(primary), WithProvider(fallback), WithBackoff(noBackoff),
	)

	resp, err := g.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", resp.Content)
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, "anthropic-model", fallback.seen[0].Model)
}

func TestGateway_ExhaustedWithoutFallback(t *testing.T) {
	p := &stubProvider{name: "openai", fails: 100}
	g := NewGateway(config.LLMConfig{DefaultProvider: "openai", MaxRetries: 0}, WithProvider(p), WithBackoff(noBackoff))

	_, err := g.Chat(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all retries exhausted for openai")
	assert.Equal(t, 1, p.calls)
}

func TestGateway_DefaultsToFirstConfiguredProvider(t *testing.T) {
	p := &stubProvider{name: "ollama", content: "local"}
	g := NewGateway(config.LLMConfig{DefaultProvider: "openai", DefaultModel: "gpt-3.5-turbo"}, WithProvider(p))

	resp, err := g.Chat(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Content)
	assert.Equal(t, "ollama-model", p.seen[0].Model)
}

func TestGateway_CancelledDuringBackoff(t *testing.T) {
	p := &stubProvider{name: "openai", fails: 100}
	g := NewGateway(config.LLMConfig{DefaultProvider: "openai", MaxRetries: 3}, WithProvider(p),
		WithBackoff(func(int) time.Duration { return time.Hour }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Chat(ctx, ChatRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-3.5-turbo", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": "gpt-3.5-turbo",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "Bonjour"}},
			},
			"usage": map[string]any{"prompt_tokens": 1000, "completion_tokens": 1000, "total_tokens": 2000},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(srv.URL+"/v1"))
	resp, err := p.ChatCompletion(context.Background(), ChatRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []Message{{Role: "user", Content: "Hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", resp.Content)
	assert.Equal(t, 2000, resp.TotalTokens)
	assert.InDelta(t, 0.002, resp.CostUSD, 1e-9)
}

func TestOllamaProvider_ChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":           map[string]any{"role": "assistant", "content": "hola"},
			"done":              true,
			"prompt_eval_count": 7,
			"eval_count":        3,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL + "/")
	resp, err := p.ChatCompletion(context.Background(), ChatRequest{Model: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, "hola", resp.Content)
	assert.Equal(t, 10, resp.TotalTokens)
	assert.Zero(t, resp.CostUSD)
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL).ChatCompletion(context.Background(), ChatRequest{Model: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestCalculateCost(t *testing.T) {
	assert.InDelta(t, 0.0005+0.0015, CalculateCost("gpt-3.5-turbo", 1000, 1000), 1e-12)
	assert.Zero(t, CalculateCost("llama3", 1000, 1000))
}
