package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, "rapidlu"), mr
}

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{Name: "a", Count: 2}, time.Minute))
	assert.True(t, mr.Exists("rapidlu:k"))

	var got item
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, item{Name: "a", Count: 2}, got)
}

func TestCache_MissAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got item
	assert.ErrorIs(t, c.Get(ctx, "absent", &got), ErrMiss)

	require.NoError(t, c.Set(ctx, "short", item{Name: "x"}, time.Second))
	mr.FastForward(2 * time.Second)
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrMiss)
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Delete(ctx, "a"))

	var n int
	assert.ErrorIs(t, c.Get(ctx, "a", &n), ErrMiss)
}

func TestCache_UnreachableRedis(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var got item
	err := c.Get(context.Background(), "k", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
