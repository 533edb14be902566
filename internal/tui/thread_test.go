package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/talentlink/internal/feed"
	"github.com/Makepad-fr/talentlink/internal/model"
)

func idleThread(t *testing.T, b *fakeBackend) *threadScreen {
	t.Helper()
	s := newThreadScreen(testContext(t), testOptions(b), 9)
	s.poller.Stop()
	return s
}

func threadEvent(s *threadScreen, seq uint64, items ...model.Message) pollMsg[model.Message] {
	return pollMsg[model.Message]{ev: feed.Event[model.Message]{
		PollerID: s.poller.ID(),
		Snapshot: feed.Snapshot[model.Message]{Source: s.poller.ID(), Seq: seq, StartedAt: time.Now(), Items: items},
	}}
}

func typeText(s *threadScreen, text string) {
	s.Update(press(text))
}

func TestThreadScreenBlankSendIsNoop(t *testing.T) {
	b := &fakeBackend{}
	s := idleThread(t, b)
	s.Update(threadEvent(s, 1, model.Message{ID: 1, Sender: 9, Content: "hi"}))

	typeText(s, "   ")
	_, cmd := s.Update(press("enter"))

	assert.Nil(t, cmd)
	assert.Empty(t, b.sent)
	assert.Len(t, s.thread.Messages(), 1)
	assert.False(t, s.sending)
}

func TestThreadScreenSend(t *testing.T) {
	b := &fakeBackend{}
	s := idleThread(t, b)
	s.Update(threadEvent(s, 1, model.Message{ID: 1, Sender: 9, Content: "hi"}))

	typeText(s, "hello ana")
	require.Equal(t, "hello ana", s.thread.Draft())

	_, cmd := s.Update(press("enter"))
	require.NotNil(t, cmd)
	assert.True(t, s.sending)

	sent, ok := find[sentMsg](collect(t, cmd))
	require.True(t, ok)
	s.Update(sent)

	assert.Equal(t, []string{"hello ana"}, b.sent)
	msgs := s.thread.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello ana", msgs[1].Content)
	assert.Empty(t, s.ti.Value(), "draft cleared after success")
	assert.False(t, s.sending)
}

func TestThreadScreenSendFailureKeepsDraft(t *testing.T) {
	b := &fakeBackend{sendErr: errors.New("502 bad gateway")}
	s := idleThread(t, b)

	typeText(s, "retry me")
	_, cmd := s.Update(press("enter"))
	sent, ok := find[sentMsg](collect(t, cmd))
	require.True(t, ok)
	s.Update(sent)

	assert.Equal(t, "retry me", s.ti.Value())
	assert.Equal(t, "retry me", s.thread.Draft())
	assert.Empty(t, s.thread.Messages())
	assert.Contains(t, s.status, "send failed")
}

func TestThreadScreenPollKeepsDraft(t *testing.T) {
	s := idleThread(t, &fakeBackend{})
	typeText(s, "unsent")

	s.Update(threadEvent(s, 1, model.Message{ID: 1, Sender: 9, Content: "hi"}))
	s.Update(threadEvent(s, 2, model.Message{ID: 1, Sender: 9, Content: "hi"}, model.Message{ID: 2, Sender: 9, Content: "there?"}))

	assert.Equal(t, "unsent", s.ti.Value())
	assert.Len(t, s.thread.Messages(), 2)
}

func TestThreadScreenPartnerName(t *testing.T) {
	s := idleThread(t, &fakeBackend{})
	assert.Equal(t, "User 9", s.Title())

	msgs := collect(t, s.fetchPartner())
	s.Update(msgs[0])
	assert.Equal(t, "Ana", s.Title())
}

func TestThreadScreenView(t *testing.T) {
	s := idleThread(t, &fakeBackend{})
	s.Update(threadEvent(s, 1,
		model.Message{ID: 1, Sender: 9, Content: "from ana"},
		model.Message{ID: 2, Sender: 7, Content: "from me"},
	))
	out := s.View(60, 20)
	assert.Contains(t, out, "from ana")
	assert.Contains(t, out, "from me")
}

func TestThreadScreenIgnoresResultsOfAnotherThread(t *testing.T) {
	b := &fakeBackend{}
	first := idleThread(t, b)
	typeText(first, "secret for ana")
	_, cmd := first.Update(press("enter"))
	late := collect(t, cmd)
	late = append(late, collect(t, first.fetchPartner())...)
	first.Close()

	second := newThreadScreen(testContext(t), testOptions(b), 12)
	second.poller.Stop()
	for _, m := range late {
		second.Update(m)
	}

	assert.Empty(t, second.thread.Messages())
	assert.Equal(t, "User 12", second.Title())
	assert.Empty(t, second.status)
}

func TestThreadScreenCloseCancelsRequests(t *testing.T) {
	s := idleThread(t, &fakeBackend{})
	require.NoError(t, s.ctx.Err())

	s.Close()
	assert.ErrorIs(t, s.ctx.Err(), context.Canceled)
}
