package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyCompletion is returned when a provider answers without any text.
var ErrEmptyCompletion = errors.New("empty completion")

// Provider is one chat-completion backend.
type Provider interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
	Models() []string
}

type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest is one completion call. Provider and Model are optional; the
// gateway fills in its defaults.
type ChatRequest struct {
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`

	// Endpoint labels the usage row, e.g. "summarize".
	Endpoint string `json:"-"`
}

type ChatResponse struct {
	ID           string  `json:"id,omitempty"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Content      string  `json:"content"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	LatencyMs    int64   `json:"latency_ms"`
}

type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// finish builds the response shared by every provider. Blank content is an
// error so callers fall back instead of returning nothing.
func finish(provider, model, id, content string, in, out int, start time.Time) (*ChatResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyCompletion
	}
	return &ChatResponse{
		ID:           id,
		Provider:     provider,
		Model:        model,
		Content:      content,
		InputTokens:  in,
		OutputTokens: out,
		TotalTokens:  in + out,
		CostUSD:      CalculateCost(model, in, out),
		LatencyMs:    time.Since(start).Milliseconds(),
	}, nil
}

// splitSystem separates system prompts, joined by blank lines, from the
// conversation turns.
func splitSystem(msgs []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
