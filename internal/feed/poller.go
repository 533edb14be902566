package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/talentlink/internal/model"
)

// Snapshot is the full content of a feed as returned by one fetch.
type Snapshot[T model.Item] struct {
	// Source is the poller that produced the snapshot.
	Source uuid.UUID
	// Seq increases by one per fetch of the same poller.
	Seq uint64
	// StartedAt is when the fetch was issued. Local changes made after it
	// are newer than anything the snapshot can contain.
	StartedAt time.Time
	Items     []T
}

// Event is one poll outcome: a snapshot, or the error of a failed fetch.
type Event[T model.Item] struct {
	PollerID uuid.UUID
	Snapshot Snapshot[T]
	Err      error
}

// FetchFunc returns the current content of a feed.
type FetchFunc[T model.Item] func(ctx context.Context) ([]T, error)

// Poller fetches a feed on a fixed interval. The first fetch runs on Start;
// the next one is scheduled only once the previous fetch has settled and its
// event has been received, so at most one request is ever in flight.
//
// A Poller is single use: once stopped it cannot be restarted. Views create
// a fresh one when they become active again.
type Poller[T model.Item] struct {
	id       uuid.UUID
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	now      func() time.Time

	events chan Event[T]

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller creates a stopped poller. name is only used in logs.
func NewPoller[T model.Item](name string, interval time.Duration, fetch FetchFunc[T]) *Poller[T] {
	return &Poller[T]{
		id:       uuid.New(),
		name:     name,
		interval: interval,
		fetch:    fetch,
		now:      time.Now,
		events:   make(chan Event[T]),
		done:     make(chan struct{}),
	}
}

// ID identifies this poller in the events it emits.
func (p *Poller[T]) ID() uuid.UUID { return p.id }

// Events is closed when the poller stops.
func (p *Poller[T]) Events() <-chan Event[T] { return p.events }

// Start launches the polling goroutine. Calling it twice, or after Stop,
// does nothing.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

// Stop cancels the timer and any in-flight fetch and waits for the polling
// goroutine to exit. No event is emitted after Stop returns.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	if started {
		<-p.done
	} else {
		close(p.events)
		close(p.done)
	}
}

func (p *Poller[T]) run(ctx context.Context) {
	defer close(p.done)
	defer close(p.events)

	logger := log.With().Str("feed", p.name).Str("poller", p.id.String()).Logger()
	logger.Debug().Dur("interval", p.interval).Msg("poller started")
	defer logger.Debug().Msg("poller stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		seq++
		ev := Event[T]{PollerID: p.id, Snapshot: Snapshot[T]{Source: p.id, Seq: seq, StartedAt: p.now()}}
		items, err := p.fetch(ctx)
		if ctx.Err() != nil {
			// torn down while fetching: the result belongs to nobody
			logger.Debug().Uint64("seq", seq).Msg("discarding fetch after stop")
			return
		}
		if err != nil {
			logger.Warn().Err(err).Uint64("seq", seq).Msg("poll failed, keeping previous snapshot")
			ev.Err = err
		} else {
			ev.Snapshot.Items = items
			logger.Debug().Uint64("seq", seq).Int("items", len(items)).Msg("poll ok")
		}

		select {
		case <-ctx.Done():
			return
		case p.events <- ev:
		}
		timer.Reset(p.interval)
	}
}
