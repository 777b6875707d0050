package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rapidlu/backend/internal/config"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type Client struct {
	client       enqueuer
	refreshDelay time.Duration
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient enqueues refresh tasks that run refreshDelay after scheduling.
func NewClient(cfg config.RedisConfig, refreshDelay time.Duration) *Client {
	return &Client{
		client:       asynq.NewClient(RedisOpt(cfg)),
		refreshDelay: refreshDelay,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ScheduleRefresh enqueues a delayed status refresh for jobID. Scheduling the
// same job and attempt twice is a no-op.
func (c *Client) ScheduleRefresh(ctx context.Context, jobID string, attempt int) error {
	payload := TTSRefreshPayload{JobID: jobID, Attempt: attempt}
	err := c.enqueue(ctx, TypeTTSRefresh, payload,
		asynq.ProcessIn(c.refreshDelay),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.TaskID(fmt.Sprintf("%s:%s:%d", TypeTTSRefresh, jobID, attempt)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
