package jobstore

import "context"

// Store maps job ids to job records. Implementations must be safe for
// concurrent use; concurrent Puts for the same id are last-writer-wins.
type Store interface {
	// Get returns a copy of the job or ErrNotFound.
	Get(ctx context.Context, id string) (*Job, error)
	// Put inserts or overwrites the job keyed by job.JobID.
	Put(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error
}
