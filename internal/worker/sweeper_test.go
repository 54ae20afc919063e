package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"workspace-access/internal/domain/access"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepExpired(ctx context.Context) (access.CleanupResult, error) {
	c.calls.Add(1)
	return access.CleanupResult{Deactivated: 1}, c.err
}

func TestSweeper_RunsUntilCancelled(t *testing.T) {
	svc := &countingSweeper{}
	s := NewSweeper(svc, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for svc.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper did not tick, calls=%d", svc.calls.Load())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestSweeper_ErrorsDoNotStopLoop(t *testing.T) {
	svc := &countingSweeper{err: errors.New("store down")}
	s := NewSweeper(svc, 5*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if svc.calls.Load() < 2 {
		t.Fatalf("expected several ticks despite errors, got %d", svc.calls.Load())
	}
}

func TestSweeper_DisabledReturnsImmediately(t *testing.T) {
	svc := &countingSweeper{}
	done := make(chan struct{})
	go func() {
		NewSweeper(svc, 0, nil).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("disabled sweeper should return")
	}
	if svc.calls.Load() != 0 {
		t.Fatalf("disabled sweeper must not sweep")
	}
}
