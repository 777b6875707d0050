package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "id"}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestScheduleRefresh_EnqueuesDelayedTask(t *testing.T) {
	fe := &fakeEnqueuer{}
	c := &Client{client: fe, refreshDelay: 5 * time.Second}

	require.NoError(t, c.ScheduleRefresh(context.Background(), "job-1", 2))
	require.Len(t, fe.tasks, 1)
	assert.Equal(t, TypeTTSRefresh, fe.tasks[0].Type())

	var payload TTSRefreshPayload
	require.NoError(t, json.Unmarshal(fe.tasks[0].Payload(), &payload))
	assert.Equal(t, TTSRefreshPayload{JobID: "job-1", Attempt: 2}, payload)

	var gotDelay time.Duration
	var gotID string
	for _, o := range fe.opts[0] {
		switch o.Type() {
		case asynq.ProcessInOpt:
			gotDelay = o.Value().(time.Duration)
		case asynq.TaskIDOpt:
			gotID = o.Value().(string)
		}
	}
	assert.Equal(t, 5*time.Second, gotDelay)
	assert.Equal(t, "tts:refresh:job-1:2", gotID)
}

func TestScheduleRefresh_DuplicateIsNoop(t *testing.T) {
	c := &Client{client: &fakeEnqueuer{err: asynq.ErrTaskIDConflict}}
	assert.NoError(t, c.ScheduleRefresh(context.Background(), "job-1", 1))
}

func TestScheduleRefresh_EnqueueError(t *testing.T) {
	c := &Client{client: &fakeEnqueuer{err: errors.New("redis down")}}
	err := c.ScheduleRefresh(context.Background(), "job-1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enqueue tts:refresh")
}

func TestHandlersRegistry_Dispatches(t *testing.T) {
	r := NewHandlersRegistry()
	var got string
	r.Register(TypeTTSRefresh, asynq.HandlerFunc(func(_ context.Context, t *asynq.Task) error {
		got = string(t.Payload())
		return nil
	}))

	err := r.Mux().ProcessTask(context.Background(), asynq.NewTask(TypeTTSRefresh, []byte(`{"job_id":"x"}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"job_id":"x"}`, got)
}
