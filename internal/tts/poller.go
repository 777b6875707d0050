package tts

import (
	"context"
	"errors"

	"github.com/rapidlu/backend/internal/tts/jobstore"
)

const unableToCheck = "Unable to check status"

// CheckStatus reports the state of jobID. It never fails: store and provider
// errors are folded into a failed record, and ids nobody knows come back as
// unknown.
//
// Lookup order: a stored record is returned as is unless it is still
// processing at a provider that can be re-polled, in which case the provider
// is asked and the store refreshed. Ids the store has never seen are offered
// to the async providers first (a miss there is not an error) and then to the
// polling providers, whose answer is final.
func (s *Service) CheckStatus(ctx context.Context, jobID string) *jobstore.Job {
	stored, err := s.store.Get(ctx, jobID)
	switch {
	case err == nil:
		return s.checkStored(ctx, stored)
	case !errors.Is(err, jobstore.ErrNotFound):
		s.logger.Error("reading tts job", "job_id", jobID, "error", err)
		s.metrics.RecordStatusCheck(ctx, "error")
		return failedJob(jobID, err)
	}

	for _, c := range s.checkers {
		if c.StatusContract() != ContractAsync {
			continue
		}
		live, err := c.CheckStatus(ctx, jobID)
		if err != nil {
			s.logger.Debug("job not known to provider", "job_id", jobID, "provider", c.Name(), "error", err)
			continue
		}
		s.metrics.RecordStatusCheck(ctx, "live")
		return s.save(ctx, live)
	}

	for _, c := range s.checkers {
		if c.StatusContract() != ContractPolling {
			continue
		}
		live, err := c.CheckStatus(ctx, jobID)
		if err != nil {
			s.logger.Error("checking tts job status", "job_id", jobID, "provider", c.Name(), "error", err)
			s.metrics.RecordStatusCheck(ctx, "error")
			return failedJob(jobID, err)
		}
		s.metrics.RecordStatusCheck(ctx, "live")
		return s.save(ctx, live)
	}

	s.metrics.RecordStatusCheck(ctx, "unknown")
	return &jobstore.Job{
		JobID:  jobID,
		Status: jobstore.StatusUnknown,
		Error:  unableToCheck,
	}
}

func (s *Service) checkStored(ctx context.Context, stored *jobstore.Job) *jobstore.Job {
	checker := s.checker(stored.Provider)
	if stored.Status != jobstore.StatusProcessing || checker == nil {
		s.metrics.RecordStatusCheck(ctx, "store")
		return stored
	}

	live, err := checker.CheckStatus(ctx, stored.JobID)
	if err != nil {
		s.logger.Error("refreshing tts job status", "job_id", stored.JobID, "provider", checker.Name(), "error", err)
		s.metrics.RecordStatusCheck(ctx, "error")
		return failedJob(stored.JobID, err)
	}
	s.metrics.RecordStatusCheck(ctx, "live")

	if !stored.Status.CanTransition(live.Status) {
		s.logger.Warn("ignoring tts job status regression",
			"job_id", stored.JobID,
			"stored", stored.Status,
			"reported", live.Status,
		)
		return stored
	}

	live.CreatedAt = stored.CreatedAt
	live.TextLength = stored.TextLength
	if live.Provider == "" {
		live.Provider = stored.Provider
	}
	return s.save(ctx, live)
}

// save stores a provider-reported record. Unknown statuses are returned but
// never stored.
func (s *Service) save(ctx context.Context, job *jobstore.Job) *jobstore.Job {
	now := s.now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == jobstore.StatusUnknown {
		return job
	}
	if err := s.store.Put(ctx, job); err != nil {
		s.logger.Error("storing tts job", "job_id", job.JobID, "error", err)
	}
	return job
}

func (s *Service) checker(provider string) StatusChecker {
	for _, c := range s.checkers {
		if c.Name() == provider {
			return c
		}
	}
	return nil
}

func failedJob(jobID string, err error) *jobstore.Job {
	return &jobstore.Job{
		JobID:  jobID,
		Status: jobstore.StatusFailed,
		Error:  err.Error(),
	}
}
