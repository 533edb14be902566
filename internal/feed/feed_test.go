package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/talentlink/internal/model"
)

// clock is a manual time source for reconcilers.
type clock struct{ t time.Time }

func newClock() *clock { return &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

var testSource = uuid.MustParse("6f1c1c8e-4b0a-4c53-9a55-3f9f0c1d2e10")

func notif(id int64, unread bool) model.Notification {
	return model.Notification{ID: id, Actor: 5, ActorName: "ana", Verb: "pinged you", Unread: unread}
}

func msg(id int64, content string) model.Message {
	return model.Message{ID: id, Sender: 7, Receiver: 9, Content: content}
}

func nsnap(seq uint64, at time.Time, items ...model.Notification) Snapshot[model.Notification] {
	return Snapshot[model.Notification]{Source: testSource, Seq: seq, StartedAt: at, Items: items}
}

func msnap(seq uint64, at time.Time, items ...model.Message) Snapshot[model.Message] {
	return Snapshot[model.Message]{Source: testSource, Seq: seq, StartedAt: at, Items: items}
}
