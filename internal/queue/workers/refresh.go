package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/rapidlu/backend/internal/queue"
	"github.com/rapidlu/backend/internal/tts/jobstore"
)

// StatusChecker looks up a TTS job and refreshes the shared job store.
type StatusChecker interface {
	CheckStatus(ctx context.Context, jobID string) *jobstore.Job
}

type Scheduler interface {
	ScheduleRefresh(ctx context.Context, jobID string, attempt int) error
}

// RefreshWorker keeps asynchronous TTS jobs fresh in the job store until they
// finish or run out of attempts.
type RefreshWorker struct {
	checker     StatusChecker
	scheduler   Scheduler
	maxAttempts int
}

func NewRefreshWorker(checker StatusChecker, scheduler Scheduler, maxAttempts int) *RefreshWorker {
	return &RefreshWorker{
		checker:     checker,
		scheduler:   scheduler,
		maxAttempts: maxAttempts,
	}
}

func (w *RefreshWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.TTSRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.JobID == "" {
		return fmt.Errorf("empty job id: %w", asynq.SkipRetry)
	}

	job := w.checker.CheckStatus(ctx, payload.JobID)
	slog.Info("refreshed tts job",
		"job_id", payload.JobID,
		"attempt", payload.Attempt,
		"status", job.Status,
		"progress", job.Progress,
	)

	if job.Status.Terminal() || job.Status == jobstore.StatusUnknown {
		return nil
	}
	if payload.Attempt >= w.maxAttempts {
		slog.Warn("giving up refreshing tts job", "job_id", payload.JobID, "attempts", payload.Attempt)
		return nil
	}

	if err := w.scheduler.ScheduleRefresh(ctx, payload.JobID, payload.Attempt+1); err != nil {
		return fmt.Errorf("reschedule refresh: %w", err)
	}
	return nil
}
