package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/talentlink/internal/model"
)

// fakeBackend answers from fixed data and records writes.
type fakeBackend struct {
	mu sync.Mutex

	messages      []model.Message
	notifications []model.Notification
	sendErr       error
	markErr       error
	pollErr       error
	reviewsErr    error

	sent   []string
	marked []int64
	nextID int64
}

func (f *fakeBackend) Conversations(context.Context) ([]model.Conversation, error) {
	return []model.Conversation{{UserID: 9, Username: "ana", LastMessage: "see you"}}, nil
}

func (f *fakeBackend) Messages(context.Context, int64) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return append([]model.Message(nil), f.messages...), nil
}

func (f *fakeBackend) SendMessage(_ context.Context, receiver int64, content string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	return &model.Message{ID: 100 + f.nextID, Sender: 7, Receiver: receiver, Content: content, Timestamp: time.Now()}, nil
}

func (f *fakeBackend) Notifications(context.Context) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return append([]model.Notification(nil), f.notifications...), nil
}

func (f *fakeBackend) MarkNotificationRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return f.markErr
}

func (f *fakeBackend) Profile(context.Context) (*model.Profile, error) {
	return &model.Profile{FullName: "Sam", HourlyRate: "25.00"}, nil
}

func (f *fakeBackend) UserProfile(context.Context, int64) (*model.Profile, error) {
	return &model.Profile{FullName: "ana"}, nil
}

func (f *fakeBackend) Contract(_ context.Context, id int64) (*model.Contract, error) {
	return &model.Contract{ID: id, Status: "active", Proposal: model.ProposalRef{ProjectTitle: "Logo"}}, nil
}

func (f *fakeBackend) Proposal(_ context.Context, id int64) (*model.Proposal, error) {
	return &model.Proposal{ID: id, ProjectTitle: "Logo", Status: "pending"}, nil
}

func (f *fakeBackend) Projects(context.Context, string) ([]model.Project, error) {
	return []model.Project{
		{ID: 3, Title: "Logo", ClientName: "ana", Budget: "300.00", Status: "open"},
		{ID: 4, Title: "Landing page", ClientName: "bo", Budget: "900.00", Status: "open"},
	}, nil
}

func (f *fakeBackend) Project(_ context.Context, id int64) (*model.Project, error) {
	return &model.Project{ID: id, Title: "Landing page", Budget: "900.00", Duration: 14, Status: "open"}, nil
}

func (f *fakeBackend) Reviews(_ context.Context, contract int64) ([]model.Review, error) {
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return []model.Review{{ID: 1, Contract: contract, ReviewerName: "ana", Rating: 5, Comment: "Great work"}}, nil
}

func (f *fakeBackend) Portfolio(context.Context) ([]model.PortfolioItem, error) {
	return []model.PortfolioItem{{ID: 1, Title: "Brand kit", URL: "https://example.com/kit"}}, nil
}

func testOptions(b *fakeBackend) Options {
	return Options{
		Backend:               b,
		Session:               model.Session{Access: "t", User: model.User{ID: 7, Name: "sam"}},
		MessagesInterval:      time.Hour,
		NotificationsInterval: time.Hour,
		ReadGracePolls:        2,
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// collect runs cmd and every command it batches, returning the messages.
// Commands that would block on a live poller must not be passed in.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("command blocked")
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
