// Package jobstore holds the TTS job records created when a provider answers
// a generation request with an asynchronous job id instead of audio.
package jobstore

import (
	"errors"
	"maps"
	"strings"
	"time"
)

// Status is the lifecycle state of a TTS job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"

	// StatusUnknown is reported for ids no store or provider recognises.
	// It is never stored.
	StatusUnknown Status = "unknown"
)

var (
	ErrNotFound  = errors.New("job not found")
	ErrInvalidID = errors.New("job id must not be empty")
)

// ParseStatus normalises a provider's status string.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "queued", "created":
		return StatusPending
	case "processing", "running", "in_progress", "generating":
		return StatusProcessing
	case "completed", "complete", "succeeded", "success", "done":
		return StatusCompleted
	case "failed", "error", "cancelled", "canceled":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a job may move from s to next.
// pending -> processing -> completed|failed; pending may also finish directly.
// Re-reporting the same state is allowed so progress can advance.
func (s Status) CanTransition(next Status) bool {
	if next == StatusUnknown || s == StatusUnknown {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing || next.Terminal()
	case StatusProcessing:
		return next.Terminal()
	default:
		return false
	}
}

// Job is the status record for one provider-assigned job id.
type Job struct {
	JobID      string         `json:"jobId"`
	Status     Status         `json:"status"`
	Progress   float64        `json:"progress"`
	Provider   string         `json:"provider,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	TextLength int            `json:"textLength,omitempty"`
	AudioURL   *string        `json:"audioUrl,omitempty"`
	AudioData  *string        `json:"audioData,omitempty"`
	Duration   *float64       `json:"duration,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Clone returns a copy that shares no pointers with j.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.AudioURL != nil {
		v := *j.AudioURL
		c.AudioURL = &v
	}
	if j.AudioData != nil {
		v := *j.AudioData
		c.AudioData = &v
	}
	if j.Duration != nil {
		v := *j.Duration
		c.Duration = &v
	}
	if j.Metadata != nil {
		c.Metadata = maps.Clone(j.Metadata)
	}
	return &c
}

// NormalizeProgress maps a provider progress value onto [0,1]. Values above
// one are read as percentages.
func NormalizeProgress(p float64) float64 {
	if p > 1 {
		p /= 100
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
