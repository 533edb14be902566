package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Makepad-fr/talentlink/internal/feed"
	"github.com/Makepad-fr/talentlink/internal/model"
)

// pollMsg carries one poller event into the event loop.
type pollMsg[T model.Item] struct {
	ev feed.Event[T]
}

// pollerClosedMsg is the last message of a stopped poller.
type pollerClosedMsg struct{ id uuid.UUID }

// waitForEvent blocks on the poller's next event. A view re-issues it after
// handling each pollMsg, so reading never outruns the event loop.
func waitForEvent[T model.Item](p *feed.Poller[T]) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-p.Events()
		if !ok {
			return pollerClosedMsg{id: p.ID()}
		}
		return pollMsg[T]{ev: ev}
	}
}
