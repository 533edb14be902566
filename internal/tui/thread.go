package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/talentlink/internal/feed"
	"github.com/Makepad-fr/talentlink/internal/model"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// sentMsg and partnerMsg belong to the screen that issued them; a rebuilt
// screen for the same or another partner ignores them.
type sentMsg struct {
	owner *threadScreen
	text  string
	msg   *model.Message
	err   error
}

type partnerMsg struct {
	owner *threadScreen
	name  string
	err   error
}

type threadScreen struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opt     Options
	thread  *feed.Thread
	poller  *feed.Poller[model.Message]
	vp      viewport.Model
	ti      textinput.Model
	partner string
	sending bool
	status  string
	loaded  bool
	width   int
}

func newThreadScreen(ctx context.Context, opt Options, partner int64) *threadScreen {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message"
	ti.CharLimit = 2000
	ti.Focus()

	ctx, cancel := context.WithCancel(ctx)
	s := &threadScreen{
		ctx:     ctx,
		cancel:  cancel,
		opt:     opt,
		thread:  feed.NewThread(partner),
		vp:      viewport.New(76, 10),
		ti:      ti,
		partner: fmt.Sprintf("User %d", partner),
		width:   76,
	}
	s.poller = feed.NewPoller("messages", opt.MessagesInterval, func(ctx context.Context) ([]model.Message, error) {
		return opt.Backend.Messages(ctx, partner)
	})
	return s
}

func (s *threadScreen) Title() string   { return ui.Capitalize(s.partner) }
func (s *threadScreen) Capturing() bool { return true }

func (s *threadScreen) Init() tea.Cmd {
	s.poller.Start(s.ctx)
	return tea.Batch(waitForEvent(s.poller), s.fetchPartner(), textinput.Blink)
}

// Close stops the poller and cancels any send or lookup still in flight.
func (s *threadScreen) Close() {
	s.cancel()
	s.poller.Stop()
}

func (s *threadScreen) fetchPartner() tea.Cmd {
	ctx, backend, id := s.ctx, s.opt.Backend, s.thread.Partner()
	return func() tea.Msg {
		p, err := backend.UserProfile(ctx, id)
		if err != nil {
			return partnerMsg{owner: s, err: err}
		}
		return partnerMsg{owner: s, name: p.FullName}
	}
}

func (s *threadScreen) send() tea.Cmd {
	text, err := s.thread.PrepareSend()
	if err != nil {
		// blank draft: nothing to do
		return nil
	}
	s.sending = true
	ctx, backend, to := s.ctx, s.opt.Backend, s.thread.Partner()
	return func() tea.Msg {
		m, err := backend.SendMessage(ctx, to, text)
		return sentMsg{owner: s, text: text, msg: m, err: err}
	}
}

func (s *threadScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg[model.Message]:
		if msg.ev.PollerID != s.poller.ID() {
			return s, nil
		}
		next := waitForEvent(s.poller)
		if msg.ev.Err != nil {
			s.status = "offline, showing last known messages"
			return s, tea.Batch(next, authFailure(msg.ev.Err))
		}
		s.status = ""
		s.loaded = true
		scroll := s.thread.Apply(msg.ev.Snapshot)
		s.render()
		if scroll {
			s.vp.GotoBottom()
		}
		return s, next

	case pollerClosedMsg:
		return s, nil

	case partnerMsg:
		if msg.owner != s {
			return s, nil
		}
		if msg.err != nil {
			return s, authFailure(msg.err)
		}
		if msg.name != "" {
			s.partner = msg.name
		}
		return s, nil

	case sentMsg:
		if msg.owner != s {
			return s, nil
		}
		s.sending = false
		if msg.err != nil {
			s.thread.SendFailed(msg.text, msg.err)
			s.status = "send failed: " + msg.err.Error()
			return s, authFailure(msg.err)
		}
		s.status = ""
		s.thread.Sent(msg.text, *msg.msg)
		s.ti.SetValue(s.thread.Draft())
		s.render()
		s.vp.GotoBottom()
		s.thread.SetAtBottom(true)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return backMsg{} }
		case "enter":
			if s.sending {
				return s, nil
			}
			return s, s.send()
		case "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			s.vp, cmd = s.vp.Update(msg)
			s.thread.SetAtBottom(s.vp.AtBottom())
			return s, cmd
		}
		var cmd tea.Cmd
		s.ti, cmd = s.ti.Update(msg)
		s.thread.SetDraft(s.ti.Value())
		return s, cmd

	}

	var cmd tea.Cmd
	s.ti, cmd = s.ti.Update(msg)
	return s, cmd
}

// render rebuilds the viewport content from the thread. The scroll offset
// is kept; callers decide whether to jump to the bottom.
func (s *threadScreen) render() {
	msgs := s.thread.Messages()
	if len(msgs) == 0 {
		s.vp.SetContent(ui.MutedStyle.Render("No messages yet."))
		return
	}
	me := s.opt.Session.User.ID
	maxw := s.width * 7 / 10
	if maxw < 10 {
		maxw = 10
	}
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		stamp := ui.MutedStyle.Render(m.Timestamp.Local().Format("15:04"))
		if m.Sender == me {
			bubble := ui.OwnBubble.MaxWidth(maxw).Render(m.Content)
			b.WriteString(lipgloss.PlaceHorizontal(s.width, lipgloss.Right, bubble+"\n"+stamp))
		} else {
			bubble := ui.OtherBubble.MaxWidth(maxw).Render(m.Content)
			b.WriteString(lipgloss.JoinVertical(lipgloss.Left, bubble, stamp))
		}
	}
	s.vp.SetContent(b.String())
}

func (s *threadScreen) View(width, height int) string {
	inputHeight := 3
	if width != s.width || s.vp.Height != height-inputHeight-1 {
		wasBottom := s.vp.AtBottom()
		s.width = width
		s.vp.Width = width
		s.vp.Height = max(height-inputHeight-1, 1)
		s.ti.Width = width - 4
		s.render()
		if wasBottom {
			s.vp.GotoBottom()
		}
	}

	status := ""
	switch {
	case s.status != "":
		status = ui.ErrorStyle.Render(s.status)
	case s.sending:
		status = ui.PendingStyle.Render("sending…")
	case !s.loaded:
		status = ui.MutedStyle.Render("loading…")
	}
	input := ui.PanelString(s.ti.View())
	return lipgloss.JoinVertical(lipgloss.Left, s.vp.View(), status, input)
}
