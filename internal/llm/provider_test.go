package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: "system", Content: "You translate."},
		{Role: "user", Content: "Hello"},
		{Role: "system", Content: "Keep the tone."},
	})
	assert.Equal(t, "You translate.\n\nKeep the tone.", system)
	assert.Equal(t, []Message{{Role: "user", Content: "Hello"}}, rest)
}

func TestAnthropicProvider_ChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(150), body["max_tokens"])
		system := body["system"].([]any)
		assert.Equal(t, "Summarize.", system[0].(map[string]any)["text"])
		assert.Len(t, body["messages"], 1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-3-5-haiku-20241022",
			"content":     []map[string]any{{"type": "text", "text": " A short summary. "}},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 1000, "output_tokens": 1000},
		})
	}))
	defer srv.Close()

	p := NewAnthropicProvider("ak-test", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	resp, err := p.ChatCompletion(context.Background(), ChatRequest{
		Model:     "claude-3-5-haiku-20241022",
		MaxTokens: 150,
		Messages: []Message{
			{Role: "system", Content: "Summarize."},
			{Role: "user", Content: "Long transcript"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", resp.Content)
	assert.Equal(t, "msg_1", resp.ID)
	assert.Equal(t, 2000, resp.TotalTokens)
	assert.InDelta(t, 0.0048, resp.CostUSD, 1e-9)
}

func TestOllamaProvider_EmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "   "},
			"done":    true,
		})
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL).ChatCompletion(context.Background(), ChatRequest{Model: "llama3"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOllamaProvider_Unfinished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "partial"},
			"done":    false,
		})
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, WithOllamaHTTPClient(srv.Client())).
		ChatCompletion(context.Background(), ChatRequest{Model: "llama3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not finish")
}
