package tts

import (
	"context"

	"github.com/rapidlu/backend/internal/tts/jobstore"
)

// Generator turns text into audio or an asynchronous job handle.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Result, error)
}

// VoiceLister is implemented by providers that can enumerate voices.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]Voice, error)
}

// StatusContract describes how a provider's job lookups are interpreted.
type StatusContract int

const (
	// ContractAsync providers hand out job ids from Generate. A failed lookup
	// for an id they never issued just means "not ours".
	ContractAsync StatusContract = iota
	// ContractPolling providers are queried as the authority of last resort;
	// a failed lookup is reported as a failed job.
	ContractPolling
)

// StatusChecker is implemented by providers with a job status endpoint.
type StatusChecker interface {
	Name() string
	StatusContract() StatusContract
	CheckStatus(ctx context.Context, jobID string) (*jobstore.Job, error)
}
