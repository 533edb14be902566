package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/talentlink/internal/model"
)

// ErrEmptyMessage is returned for a draft that is empty after trimming.
var ErrEmptyMessage = errors.New("message is empty")

// MessageSender is the part of the API client a thread needs to send.
type MessageSender interface {
	SendMessage(ctx context.Context, receiver int64, content string) (*model.Message, error)
}

// Thread is the local state of a chat with one partner.
type Thread struct {
	partner  int64
	items    []model.Message
	seq      sequence
	sent     []sentMessage
	draft    string
	atBottom bool
	now      func() time.Time
}

// sentMessage is a message confirmed by a send that no snapshot has shown yet.
type sentMessage struct {
	msg         model.Message
	confirmedAt time.Time
}

func NewThread(partner int64) *Thread {
	return &Thread{partner: partner, atBottom: true, now: time.Now}
}

func (t *Thread) Partner() int64 { return t.partner }

// Messages returns a copy of the thread in server order.
func (t *Thread) Messages() []model.Message {
	return append([]model.Message(nil), t.items...)
}

func (t *Thread) Draft() string           { return t.draft }
func (t *Thread) SetDraft(s string)       { t.draft = s }
func (t *Thread) AtBottom() bool          { return t.atBottom }
func (t *Thread) SetAtBottom(bottom bool) { t.atBottom = bottom }

// Apply merges a snapshot. The draft and the scroll anchor are left alone.
// It returns true when the view should scroll to the bottom: new messages
// landed at the tail and the user was already reading the tail.
//
// Snapshots older than one already applied are ignored.
func (t *Thread) Apply(s Snapshot[model.Message]) (scroll bool) {
	if !t.seq.fresh(s.Source, s.Seq) {
		log.Debug().Int64("partner", t.partner).Uint64("seq", s.Seq).Msg("stale thread snapshot ignored")
		return false
	}

	merged := dedupe(s.Items)
	inSnapshot := keys(merged)

	// Keep our own sends the snapshot could not have seen yet.
	pending := t.sent[:0]
	for _, sm := range t.sent {
		if _, ok := inSnapshot[sm.msg.ID]; ok {
			continue
		}
		if s.StartedAt.Before(sm.confirmedAt) {
			merged = append(merged, sm.msg)
			inSnapshot[sm.msg.ID] = struct{}{}
			pending = append(pending, sm)
		}
	}
	t.sent = pending

	appended := false
	if n := len(merged); n > 0 {
		_, known := keys(t.items)[merged[n-1].ID]
		appended = !known
	}
	t.items = merged
	return appended && t.atBottom
}

// PrepareSend validates the draft and returns the text to submit. The draft
// itself is kept until Sent confirms it.
func (t *Thread) PrepareSend() (string, error) {
	text := strings.TrimSpace(t.draft)
	if text == "" {
		return "", ErrEmptyMessage
	}
	return text, nil
}

// Sent records a message confirmed by the server: it is appended right away
// and the draft is cleared unless the user kept typing after submitting.
// It returns true when the view should scroll to the bottom.
func (t *Thread) Sent(submitted string, m model.Message) (scroll bool) {
	if strings.TrimSpace(t.draft) == submitted {
		t.draft = ""
	}
	for _, it := range t.items {
		if it.ID == m.ID {
			return false
		}
	}
	t.items = append(t.items, m)
	t.sent = append(t.sent, sentMessage{msg: m, confirmedAt: t.now()})
	return true
}

// SendFailed keeps the draft so the user can retry.
func (t *Thread) SendFailed(submitted string, err error) {
	log.Warn().Err(err).Int64("partner", t.partner).Int("len", len(submitted)).Msg("send failed, draft kept")
}

// Send submits the draft through api and records the result. It blocks;
// views run the network half in a command and call PrepareSend/Sent
// themselves.
func (t *Thread) Send(ctx context.Context, api MessageSender) (*model.Message, error) {
	text, err := t.PrepareSend()
	if err != nil {
		return nil, err
	}
	m, err := api.SendMessage(ctx, t.partner, text)
	if err != nil {
		t.SendFailed(text, err)
		return nil, err
	}
	t.Sent(text, *m)
	return m, nil
}
