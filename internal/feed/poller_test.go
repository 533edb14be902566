package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/talentlink/internal/model"
)

const waitFor = 2 * time.Second

func next[T model.Item](t *testing.T, p *Poller[T]) Event[T] {
	t.Helper()
	select {
	case ev, ok := <-p.Events():
		require.True(t, ok, "events closed")
		return ev
	case <-time.After(waitFor):
		t.Fatal("no event")
	}
	return Event[T]{}
}

func TestPollerDeliversSnapshotsInOrder(t *testing.T) {
	t.Parallel()

	var n atomic.Int64
	p := NewPoller("notifications", time.Millisecond, func(context.Context) ([]model.Notification, error) {
		i := n.Add(1)
		return []model.Notification{notif(i, true)}, nil
	})
	p.Start(context.Background())
	defer p.Stop()

	for want := uint64(1); want <= 3; want++ {
		ev := next(t, p)
		require.NoError(t, ev.Err)
		assert.Equal(t, p.ID(), ev.PollerID)
		assert.Equal(t, p.ID(), ev.Snapshot.Source)
		assert.Equal(t, want, ev.Snapshot.Seq)
		assert.Equal(t, int64(want), ev.Snapshot.Items[0].ID)
		assert.False(t, ev.Snapshot.StartedAt.IsZero())
	}
}

func TestPollerReportsErrorsAndKeepsPolling(t *testing.T) {
	t.Parallel()

	var n atomic.Int64
	boom := errors.New("connection refused")
	p := NewPoller("messages", time.Millisecond, func(context.Context) ([]model.Message, error) {
		if n.Add(1) == 1 {
			return nil, boom
		}
		return []model.Message{msg(1, "a")}, nil
	})
	p.Start(context.Background())
	defer p.Stop()

	ev := next(t, p)
	assert.ErrorIs(t, ev.Err, boom)
	assert.Empty(t, ev.Snapshot.Items)

	ev = next(t, p)
	require.NoError(t, ev.Err)
	assert.Len(t, ev.Snapshot.Items, 1)

	// A failed poll leaves the thread as it was.
	th := NewThread(9)
	th.Apply(ev.Snapshot)
	assert.Len(t, th.Messages(), 1)
}

func TestPollerOneFetchAtATime(t *testing.T) {
	t.Parallel()

	var inFlight, maxInFlight, calls atomic.Int64
	p := NewPoller("messages", time.Microsecond, func(context.Context) ([]model.Message, error) {
		calls.Add(1)
		cur := inFlight.Add(1)
		for {
			old := maxInFlight.Load()
			if cur <= old || maxInFlight.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return nil, nil
	})
	p.Start(context.Background())
	defer p.Stop()

	for i := 0; i < 5; i++ {
		next(t, p)
	}
	assert.Equal(t, int64(1), maxInFlight.Load())

	// Nobody reads events: ticks do not pile up behind the pending one.
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int64(6))
}

func TestPollerStopDiscardsInFlightFetch(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	p := NewPoller("messages", time.Hour, func(ctx context.Context) ([]model.Message, error) {
		close(entered)
		<-ctx.Done()
		// the response still "arrives" after teardown
		return []model.Message{msg(666, "stale")}, nil
	})
	p.Start(context.Background())

	<-entered
	p.Stop()

	_, ok := <-p.Events()
	assert.False(t, ok, "no event after Stop")
}

func TestPollerFreshInstanceAfterTeardown(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	old := NewPoller("messages", time.Hour, func(ctx context.Context) ([]model.Message, error) {
		close(entered)
		<-ctx.Done()
		return []model.Message{msg(666, "stale")}, nil
	})
	old.Start(context.Background())
	<-entered
	old.Stop()

	fresh := NewPoller("messages", time.Hour, func(context.Context) ([]model.Message, error) {
		return []model.Message{msg(1, "fresh")}, nil
	})
	fresh.Start(context.Background())
	defer fresh.Stop()

	th := NewThread(9)
	// drain whatever the old poller could still hand out, then the new one
	for ev := range old.Events() {
		th.Apply(ev.Snapshot)
	}
	th.Apply(next(t, fresh).Snapshot)

	assert.Equal(t, []string{"fresh"}, contents(th.Messages()))
	assert.NotEqual(t, old.ID(), fresh.ID())
}

func TestPollerStopIsIdempotentAndFinal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	p := NewPoller("notifications", time.Millisecond, func(context.Context) ([]model.Notification, error) {
		calls.Add(1)
		return nil, nil
	})
	p.Stop()
	p.Stop()
	p.Start(context.Background())

	_, ok := <-p.Events()
	assert.False(t, ok)
	assert.Zero(t, calls.Load())
}

func TestPollerParentContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller("notifications", time.Millisecond, func(context.Context) ([]model.Notification, error) {
		return nil, nil
	})
	p.Start(ctx)
	next(t, p)
	cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range p.Events() {
		}
	}()
	wg.Wait()
	p.Stop()
}
