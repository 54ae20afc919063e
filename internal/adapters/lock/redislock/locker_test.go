package redislock_test

import (
	"context"
	"testing"
	"time"

	"workspace-access/internal/adapters/lock/redislock"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T, ttl time.Duration) (*redislock.Locker, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redislock.New(client, ttl, nil), mr
}

func TestLocker_ExclusiveUntilUnlock(t *testing.T) {
	t.Parallel()

	l, mr := newLocker(t, time.Minute)

	unlock, err := l.Lock(context.Background(), "org-1|u-1|project|p-1")
	require.NoError(t, err)
	require.True(t, mr.Exists("access:lock:org-1|u-1|project|p-1"))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "org-1|u-1|project|p-1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	require.False(t, mr.Exists("access:lock:org-1|u-1|project|p-1"))

	again, err := l.Lock(context.Background(), "org-1|u-1|project|p-1")
	require.NoError(t, err)
	again()
}

func TestLocker_DifferentKeysIndependent(t *testing.T) {
	t.Parallel()

	l, _ := newLocker(t, time.Minute)

	a, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer a()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	b()
}

func TestLocker_UnlockKeepsForeignHolder(t *testing.T) {
	t.Parallel()

	l, mr := newLocker(t, time.Second)

	stale, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// vence el TTL y otro holder toma la clave
	mr.FastForward(2 * time.Second)
	fresh, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	stale()
	require.True(t, mr.Exists("access:lock:k"), "stale unlock must not release the new holder")

	fresh()
	require.False(t, mr.Exists("access:lock:k"))
}

func TestLocker_RedisDown(t *testing.T) {
	t.Parallel()

	l, mr := newLocker(t, time.Second)
	mr.Close()

	_, err := l.Lock(context.Background(), "k")
	require.Error(t, err)
}
