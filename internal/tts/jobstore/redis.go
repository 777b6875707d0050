package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps jobs as JSON values with a TTL, so the API and worker
// processes see the same records.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisOption func(*RedisStore)

// WithRedisTTL sets the expiry applied on every Put. Zero means no expiry.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Default is "rapidlu".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		ttl:    24 * time.Hour,
		prefix: "rapidlu",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":tts:job:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Job, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *RedisStore) Put(ctx context.Context, job *Job) error {
	if job == nil || job.JobID == "" {
		return ErrInvalidID
	}

	c := job.Clone()
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", c.JobID, err)
	}
	if err := s.client.Set(ctx, s.key(c.JobID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("put job %s: %w", c.JobID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
