package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/talentlink/internal/feed"
	"github.com/Makepad-fr/talentlink/internal/model"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// markedMsg is the outcome of the PATCH behind a mark-read. The app
// routes it to the inbox whichever screen is on top.
type markedMsg struct {
	id  int64
	err error
}

// notifItem adapts a Notification to bubbles/list.Item
type notifItem struct{ n model.Notification }

func (i notifItem) Title() string       { return i.n.ActorName + " " + i.n.Verb }
func (i notifItem) Description() string { return i.n.Description }
func (i notifItem) FilterValue() string { return i.n.ActorName + " " + i.n.Verb }

// notifDelegate renders one notification per line, unread ones highlighted.
type notifDelegate struct{}

func (d notifDelegate) Height() int                               { return 1 }
func (d notifDelegate) Spacing() int                              { return 0 }
func (d notifDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d notifDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(notifItem)
	dot := ui.MutedStyle.Render(ui.DotRead)
	text := ui.TitleStyle.Render(it.n.ActorName) + " " + it.n.Verb
	if it.n.Unread {
		dot = ui.UnreadStyle.Render(ui.DotUnread)
		text = ui.UnreadStyle.Render(it.n.ActorName + " " + it.n.Verb)
	}
	stamp := ui.MutedStyle.Render(it.n.Timestamp.Local().Format("Jan 2 15:04"))

	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, dot, text, stamp)
}

var keyOpen = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))

type notificationsScreen struct {
	ctx    context.Context
	opt    Options
	inbox  *feed.Inbox
	poller *feed.Poller[model.Notification]
	list   list.Model
	status string
	loaded bool
}

// newNotificationsScreen builds the panel over inbox, which the app owns so
// that pending mark-reads outlive the screen.
func newNotificationsScreen(ctx context.Context, opt Options, inbox *feed.Inbox) *notificationsScreen {
	l := list.New(nil, notifDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keyOpen} }

	s := &notificationsScreen{
		ctx:   ctx,
		opt:   opt,
		inbox: inbox,
		list:  l,
	}
	s.poller = feed.NewPoller("notifications", opt.NotificationsInterval, opt.Backend.Notifications)
	s.sync()
	return s
}

func (s *notificationsScreen) Title() string {
	return fmt.Sprintf("Notifications (%d)", s.inbox.UnreadCount())
}
func (s *notificationsScreen) Capturing() bool { return false }

func (s *notificationsScreen) Init() tea.Cmd {
	s.poller.Start(s.ctx)
	return waitForEvent(s.poller)
}

func (s *notificationsScreen) Close() { s.poller.Stop() }

func (s *notificationsScreen) refreshTitle() {
	s.list.Title = fmt.Sprintf("%s   %s %d",
		ui.TitleStyle.Render("Notifications"),
		ui.UnreadStyle.Render(ui.DotUnread), s.inbox.UnreadCount(),
	)
}

// sync copies the inbox into the list, keeping the cursor.
func (s *notificationsScreen) sync() tea.Cmd {
	items := s.inbox.Items()
	li := make([]list.Item, 0, len(items))
	for _, n := range items {
		li = append(li, notifItem{n: n})
	}
	cmd := s.list.SetItems(li)
	s.refreshTitle()
	return cmd
}

// open marks the selected notification read, fires the PATCH and navigates.
func (s *notificationsScreen) open() tea.Cmd {
	it, ok := s.list.SelectedItem().(notifItem)
	if !ok {
		return nil
	}
	target, ok := s.inbox.MarkRead(it.n.ID)
	if !ok {
		return nil
	}
	cmds := []tea.Cmd{s.sync(), s.markRead(it.n.ID)}
	if r, ok := routeFor(target); ok {
		cmds = append(cmds, navigate(r))
	}
	return tea.Batch(cmds...)
}

func (s *notificationsScreen) markRead(id int64) tea.Cmd {
	ctx, backend := s.ctx, s.opt.Backend
	return func() tea.Msg {
		return markedMsg{id: id, err: backend.MarkNotificationRead(ctx, id)}
	}
}

func (s *notificationsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg[model.Notification]:
		if msg.ev.PollerID != s.poller.ID() {
			return s, nil
		}
		next := waitForEvent(s.poller)
		if msg.ev.Err != nil {
			s.status = "offline, showing last known notifications"
			return s, tea.Batch(next, authFailure(msg.ev.Err))
		}
		s.status = ""
		s.loaded = true
		s.inbox.Apply(msg.ev.Snapshot)
		return s, tea.Batch(next, s.sync())

	case pollerClosedMsg:
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keyOpen) {
			return s, s.open()
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *notificationsScreen) View(width, height int) string {
	h := height
	if s.status != "" || !s.loaded {
		h--
	}
	s.list.SetSize(width, max(h, 1))
	out := s.list.View()
	switch {
	case s.status != "":
		out += "\n" + ui.ErrorStyle.Render(s.status)
	case !s.loaded:
		out += "\n" + ui.MutedStyle.Render("loading…")
	}
	return out
}
