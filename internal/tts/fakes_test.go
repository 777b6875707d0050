package tts

import (
	"context"
	"errors"
	"sync"

	"github.com/rapidlu/backend/internal/tts/jobstore"
	"github.com/rapidlu/backend/internal/usage"
)

type fakeProvider struct {
	name     string
	contract StatusContract
	result   *Result
	err      error
	voices   []Voice
	voiceErr error

	mu        sync.Mutex
	calls     int
	statuses  []*jobstore.Job
	statusErr error
	checks    int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(context.Context, Request) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.Provider = f.name
	return &res, nil
}

func (f *fakeProvider) ListVoices(context.Context) ([]Voice, error) {
	return f.voices, f.voiceErr
}

// statusFake adds StatusChecker to a fakeProvider.
type statusFake struct {
	*fakeProvider
}

func (f statusFake) StatusContract() StatusContract { return f.contract }

func (f statusFake) CheckStatus(_ context.Context, jobID string) (*jobstore.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if len(f.statuses) == 0 {
		return nil, errors.New("no such job")
	}
	job := f.statuses[0].Clone()
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	job.JobID = jobID
	job.Provider = f.name
	return job, nil
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) Checks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks
}

type recordingUsage struct {
	mu      sync.Mutex
	entries []usage.Entry
}

func (r *recordingUsage) Record(_ context.Context, e usage.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

type recordingScheduler struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingScheduler) ScheduleRefresh(_ context.Context, jobID string, attempt int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, jobID)
	return nil
}

type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (*jobstore.Job, error) {
	return nil, b.err
}

func (b brokenStore) Put(context.Context, *jobstore.Job) error {
	return b.err
}

func (b brokenStore) Delete(context.Context, string) error {
	return b.err
}
