package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/talentlink/internal/model"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

type conversationsMsg struct {
	owner *conversationsScreen
	convs []model.Conversation
	err   error
}

type convItem struct{ c model.Conversation }

func (i convItem) Title() string       { return ui.Capitalize(i.c.Username) }
func (i convItem) Description() string { return i.c.LastMessage }
func (i convItem) FilterValue() string { return i.c.Username }

var keyRefresh = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))

// conversationsScreen is the inbox: one row per chat partner. It loads once
// and on demand; the thread itself is what polls.
type conversationsScreen struct {
	ctx    context.Context
	opt    Options
	list   list.Model
	status string
	loaded bool
}

func newConversationsScreen(ctx context.Context, opt Options) *conversationsScreen {
	d := list.NewDefaultDelegate()
	l := list.New(nil, d, 0, 0)
	l.Title = "Your Messages"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("conversation", "conversations")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keyOpen, keyRefresh} }
	return &conversationsScreen{ctx: ctx, opt: opt, list: l}
}

func (s *conversationsScreen) Title() string { return "Inbox" }

func (s *conversationsScreen) Capturing() bool { return s.list.FilterState() == list.Filtering }

func (s *conversationsScreen) Init() tea.Cmd { return s.load() }

func (s *conversationsScreen) Close() {}

func (s *conversationsScreen) load() tea.Cmd {
	ctx, backend := s.ctx, s.opt.Backend
	return func() tea.Msg {
		convs, err := backend.Conversations(ctx)
		return conversationsMsg{owner: s, convs: convs, err: err}
	}
}

func (s *conversationsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationsMsg:
		if msg.owner != s {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.status = "could not load conversations: " + msg.err.Error()
			return s, authFailure(msg.err)
		}
		s.status = ""
		items := make([]list.Item, 0, len(msg.convs))
		for _, c := range msg.convs {
			items = append(items, convItem{c: c})
		}
		return s, s.list.SetItems(items)

	case tea.KeyMsg:
		if s.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, keyOpen):
				if it, ok := s.list.SelectedItem().(convItem); ok {
					return s, navigate(ThreadRoute(it.c.UserID))
				}
				return s, nil
			case key.Matches(msg, keyRefresh):
				return s, s.load()
			}
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *conversationsScreen) View(width, height int) string {
	h := height
	if s.status != "" {
		h--
	}
	s.list.SetSize(width, max(h, 1))
	out := s.list.View()
	if s.status != "" {
		out += "\n" + ui.ErrorStyle.Render(s.status)
	} else if s.loaded && len(s.list.Items()) == 0 {
		out = fmt.Sprintf("%s\n%s", out, ui.MutedStyle.Render("No conversations yet."))
	}
	return out
}
