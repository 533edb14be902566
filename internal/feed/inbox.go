package feed

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/talentlink/internal/model"
)

// Inbox is the local state of the notification feed.
//
// Read state policy: a notification marked read locally stays read while
// the PATCH is in flight, against any snapshot fetched before the PATCH was
// acknowledged, and for gracePolls further snapshots after that. A snapshot
// reporting it read ends the override early. Once the grace polls are used
// up the server wins, so a notification the server marks unread again shows
// up as a new event. A failed PATCH drops the override and the next
// snapshot decides.
type Inbox struct {
	items      []model.Notification
	marks      map[int64]*readMark
	seq        sequence
	gracePolls int
	now        func() time.Time
}

type readMark struct {
	requestedAt time.Time
	acked       bool
	ackedAt     time.Time
	// snapshots newer than the ack that still reported unread
	disagreed int
}

func NewInbox(gracePolls int) *Inbox {
	if gracePolls < 0 {
		gracePolls = 0
	}
	return &Inbox{
		marks:      make(map[int64]*readMark),
		gracePolls: gracePolls,
		now:        time.Now,
	}
}

// Items returns a copy of the feed in server order.
func (b *Inbox) Items() []model.Notification {
	return append([]model.Notification(nil), b.items...)
}

func (b *Inbox) UnreadCount() int {
	n := 0
	for _, it := range b.items {
		if it.Unread {
			n++
		}
	}
	return n
}

// Pending reports whether a local mark-read override exists for id.
func (b *Inbox) Pending(id int64) bool {
	_, ok := b.marks[id]
	return ok
}

// Apply merges a snapshot, resolving every unread flag against the local
// overrides. It returns false if the snapshot was stale and ignored.
func (b *Inbox) Apply(s Snapshot[model.Notification]) bool {
	if !b.seq.fresh(s.Source, s.Seq) {
		log.Debug().Uint64("seq", s.Seq).Msg("stale notification snapshot ignored")
		return false
	}

	merged := dedupe(s.Items)
	for i := range merged {
		it := &merged[i]
		m, ok := b.marks[it.ID]
		if !ok {
			continue
		}
		switch {
		case !it.Unread:
			// server caught up
			delete(b.marks, it.ID)
		case !m.acked, s.StartedAt.Before(m.ackedAt):
			it.Unread = false
		default:
			m.disagreed++
			if m.disagreed > b.gracePolls {
				log.Debug().Int64("id", it.ID).Msg("notification unread again on server")
				delete(b.marks, it.ID)
				continue
			}
			it.Unread = false
		}
	}

	present := keys(merged)
	for id, m := range b.marks {
		if _, ok := present[id]; !ok && m.acked {
			delete(b.marks, id)
		}
	}

	b.items = merged
	return true
}

// MarkRead flips id to read immediately and records the override. The
// caller then issues the PATCH and reports back through Acknowledge. ok is
// false if id is not in the feed.
func (b *Inbox) MarkRead(id int64) (target Target, ok bool) {
	for i := range b.items {
		if b.items[i].ID != id {
			continue
		}
		b.items[i].Unread = false
		b.marks[id] = &readMark{requestedAt: b.now()}
		return TargetFor(b.items[i]), true
	}
	return Target{}, false
}

// Acknowledge records the outcome of the PATCH for id. On failure the
// local flag is not rolled back; the override is dropped and the next
// snapshot corrects it.
func (b *Inbox) Acknowledge(id int64, err error) {
	m, ok := b.marks[id]
	if !ok {
		return
	}
	if err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("mark read failed, next poll decides")
		delete(b.marks, id)
		return
	}
	m.acked = true
	m.ackedAt = b.now()
}
