package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(context.Background(), mr.Addr())
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestNewClient_Unreachable(t *testing.T) {
	assert.Nil(t, NewClient(context.Background(), "127.0.0.1:1"))
	assert.Nil(t, NewClient(context.Background(), "redis://%zz"))
}

func TestNewClient_URL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NotNil(t, client)
	_ = client.Close()
}

func TestAside_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0

	load := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: "p1", Likes: 3}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, c.Aside(ctx, PostKey("p1"), &first, PostTTL, load(&first)))
	assert.Equal(t, 3, first.Likes)
	assert.True(t, mr.Exists("post:p1"))
	assert.Equal(t, PostTTL, mr.TTL("post:p1"))

	var second cachedPost
	require.NoError(t, c.Aside(ctx, PostKey("p1"), &second, PostTTL, load(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	c.InvalidatePost(ctx, "p1")
	assert.False(t, mr.Exists("post:p1"))
}

func TestAside_LoadErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("not found")

	var dest cachedPost
	err := c.Aside(context.Background(), UserKey("u1"), &dest, UserTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("user:u1"))
}

func TestAside_NilCacheFallsThrough(t *testing.T) {
	var c *Cache
	var dest cachedPost
	require.NoError(t, c.Aside(context.Background(), "k", &dest, time.Minute, func() error {
		dest.ID = "loaded"
		return nil
	}))
	assert.Equal(t, "loaded", dest.ID)
	c.Invalidate(context.Background(), "k")

	empty := New(nil)
	require.NoError(t, empty.Aside(context.Background(), "k", &dest, time.Minute, func() error { return nil }))
}

func TestAside_RedisDownStillLoads(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var dest cachedPost
	require.NoError(t, c.Aside(context.Background(), "post:x", &dest, time.Minute, func() error {
		dest.ID = "x"
		return nil
	}))
	assert.Equal(t, "x", dest.ID)
}
