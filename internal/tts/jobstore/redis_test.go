package jobstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, opts...), mr
}

func TestRedisStore_PutGet(t *testing.T) {
	store, mr := setupRedisStore(t, WithPrefix("test"))
	ctx := context.Background()

	url := "https://cdn.example/out.mp3"
	require.NoError(t, store.Put(ctx, &Job{
		JobID:    "job-9",
		Status:   StatusCompleted,
		Progress: 1,
		Provider: "autocontent",
		AudioURL: &url,
	}))

	assert.True(t, mr.Exists("test:tts:job:job-9"))

	got, err := store.Get(ctx, "job-9")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 1.0, got.Progress)
	require.NotNil(t, got.AudioURL)
	assert.Equal(t, url, *got.AudioURL)
}

func TestRedisStore_NotFound(t *testing.T) {
	store, _ := setupRedisStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := setupRedisStore(t, WithRedisTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Job{JobID: "short", Status: StatusProcessing}))
	assert.Equal(t, time.Minute, mr.TTL("rapidlu:tts:job:short"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Job{JobID: "gone", Status: StatusFailed}))
	require.NoError(t, store.Delete(ctx, "gone"))

	_, err := store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}
