// Package usage records one row per upstream TTS or LLM call so operators can
// see which providers served traffic and what it cost.
package usage

import (
	"context"
	"time"
)

const (
	KindTTS = "tts"
	KindLLM = "llm"
)

// Entry is a single upstream call.
type Entry struct {
	Kind         string
	Provider     string
	Model        string
	Endpoint     string
	Characters   int
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	AudioSeconds float64
	LatencyMs    int64
	JobID        string
	Fallback     bool
	Timestamp    time.Time
}

// Recorder persists usage entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards every entry. It is used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

// Summary aggregates entries for one kind/provider/model triple.
type Summary struct {
	Kind              string  `json:"kind"`
	Provider          string  `json:"provider"`
	Model             string  `json:"model,omitempty"`
	TotalCalls        int     `json:"total_calls"`
	FallbackCalls     int     `json:"fallback_calls"`
	TotalCharacters   int     `json:"total_characters"`
	TotalTokens       int     `json:"total_tokens"`
	TotalAudioSeconds float64 `json:"total_audio_seconds"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
}
