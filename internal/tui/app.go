package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/talentlink/internal/api"
	"github.com/Makepad-fr/talentlink/internal/feed"
	"github.com/Makepad-fr/talentlink/internal/model"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// ErrSessionExpired is returned by Run when the backend rejected the token.
var ErrSessionExpired = errors.New("session expired")

// Backend is the part of the API client the views use.
type Backend interface {
	Conversations(ctx context.Context) ([]model.Conversation, error)
	Messages(ctx context.Context, userID int64) ([]model.Message, error)
	SendMessage(ctx context.Context, receiver int64, content string) (*model.Message, error)
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	Profile(ctx context.Context) (*model.Profile, error)
	UserProfile(ctx context.Context, userID int64) (*model.Profile, error)
	Contract(ctx context.Context, id int64) (*model.Contract, error)
	Proposal(ctx context.Context, id int64) (*model.Proposal, error)
	Projects(ctx context.Context, search string) ([]model.Project, error)
	Project(ctx context.Context, id int64) (*model.Project, error)
	Reviews(ctx context.Context, contractID int64) ([]model.Review, error)
	Portfolio(ctx context.Context) ([]model.PortfolioItem, error)
}

// Options carries everything a view needs; nothing is looked up globally.
type Options struct {
	Backend               Backend
	Session               model.Session
	MessagesInterval      time.Duration
	NotificationsInterval time.Duration
	ReadGracePolls        int
	// OnSessionExpired clears the stored session. Optional.
	OnSessionExpired func() error
}

type routeKind int

const (
	routeConversations routeKind = iota
	routeThread
	routeNotifications
	routeContract
	routeProposal
	routeProfile
	routeProjects
	routeProject
)

// Route names a screen; screens are rebuilt from it on every visit.
type Route struct {
	kind routeKind
	id   int64
}

func ConversationsRoute() Route      { return Route{kind: routeConversations} }
func ThreadRoute(userID int64) Route { return Route{kind: routeThread, id: userID} }
func NotificationsRoute() Route      { return Route{kind: routeNotifications} }
func ProfileRoute() Route            { return Route{kind: routeProfile} }
func ProjectsRoute() Route           { return Route{kind: routeProjects} }
func ProjectRoute(id int64) Route    { return Route{kind: routeProject, id: id} }

func routeFor(t feed.Target) (Route, bool) {
	switch t.Route {
	case feed.RouteThread:
		return Route{kind: routeThread, id: t.ID}, true
	case feed.RouteContract:
		return Route{kind: routeContract, id: t.ID}, true
	case feed.RouteProposalEditor:
		return Route{kind: routeProposal, id: t.ID}, true
	default:
		return Route{}, false
	}
}

// screen is one view. Close releases what the screen owns (its poller) and
// is called exactly once when the screen is left.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View(width, height int) string
	Title() string
	// Capturing screens consume plain keys (text entry, filtering).
	Capturing() bool
	Close()
}

// navigateMsg asks the app to open a route on top of the current one.
type navigateMsg struct{ to Route }

// backMsg asks the app to leave the current screen. The chat thread
// captures plain keys but still treats esc as back.
type backMsg struct{}

// sessionExpiredMsg is sent by any view that got ErrUnauthenticated.
type sessionExpiredMsg struct{}

func navigate(r Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: r} }
}

// authFailure turns ErrUnauthenticated into a sessionExpiredMsg; other
// errors stay with the view.
func authFailure(err error) tea.Cmd {
	if errors.Is(err, api.ErrUnauthenticated) {
		return func() tea.Msg { return sessionExpiredMsg{} }
	}
	return nil
}

var (
	keyQuit          = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	keyQuitIdle      = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	keyBack          = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	keyNotifications = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications"))
	keyProfile       = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile"))
	keyInbox         = key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inbox"))
	keyProjects      = key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "browse projects"))
)

// App is the root Bubble Tea model: a stack of routes with exactly one live
// screen, the top one. Going back rebuilds the previous screen, so a view
// that polls always starts with a fresh poller. The notification inbox is
// shared across visits so pending mark-reads survive navigation.
type App struct {
	ctx     context.Context
	opt     Options
	inbox   *feed.Inbox
	history []Route
	current screen
	width   int
	height  int
	expired bool
}

func NewApp(ctx context.Context, opt Options, start Route) *App {
	a := &App{ctx: ctx, opt: opt, inbox: feed.NewInbox(opt.ReadGracePolls), width: 80, height: 24}
	a.history = []Route{start}
	a.current = a.build(start)
	return a
}

func (a *App) build(r Route) screen {
	switch r.kind {
	case routeThread:
		return newThreadScreen(a.ctx, a.opt, r.id)
	case routeNotifications:
		return newNotificationsScreen(a.ctx, a.opt, a.inbox)
	case routeContract:
		return newContractScreen(a.ctx, a.opt, r.id)
	case routeProposal:
		return newProposalScreen(a.ctx, a.opt, r.id)
	case routeProfile:
		return newProfileScreen(a.ctx, a.opt)
	case routeProjects:
		return newProjectsScreen(a.ctx, a.opt)
	case routeProject:
		return newProjectScreen(a.ctx, a.opt, r.id)
	default:
		return newConversationsScreen(a.ctx, a.opt)
	}
}

func (a *App) Init() tea.Cmd { return a.current.Init() }

// open replaces the live screen with r and pushes it on the history.
func (a *App) open(r Route) tea.Cmd {
	a.current.Close()
	a.history = append(a.history, r)
	a.current = a.build(r)
	return a.current.Init()
}

// back pops the history. At the root it quits.
func (a *App) back() tea.Cmd {
	if len(a.history) <= 1 {
		return tea.Quit
	}
	a.current.Close()
	a.history = a.history[:len(a.history)-1]
	a.current = a.build(a.history[len(a.history)-1])
	return a.current.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case navigateMsg:
		return a, a.open(msg.to)
	case backMsg:
		return a, a.back()
	case markedMsg:
		a.inbox.Acknowledge(msg.id, msg.err)
		return a, authFailure(msg.err)
	case sessionExpiredMsg:
		log.Warn().Msg("session expired, clearing credentials")
		a.expired = true
		if a.opt.OnSessionExpired != nil {
			if err := a.opt.OnSessionExpired(); err != nil {
				log.Error().Err(err).Msg("clear session")
			}
		}
		return a, tea.Quit
	case tea.KeyMsg:
		if key.Matches(msg, keyQuit) {
			return a, tea.Quit
		}
		if key.Matches(msg, keyBack) && !a.current.Capturing() {
			return a, a.back()
		}
		if !a.current.Capturing() {
			switch {
			case key.Matches(msg, keyQuitIdle):
				return a, tea.Quit
			case key.Matches(msg, keyNotifications) && a.top().kind != routeNotifications:
				return a, a.open(NotificationsRoute())
			case key.Matches(msg, keyProfile) && a.top().kind != routeProfile:
				return a, a.open(ProfileRoute())
			case key.Matches(msg, keyInbox) && a.top().kind != routeConversations:
				return a, a.open(ConversationsRoute())
			case key.Matches(msg, keyProjects) && a.top().kind != routeProjects:
				return a, a.open(ProjectsRoute())
			}
		}
	}

	var cmd tea.Cmd
	a.current, cmd = a.current.Update(msg)
	return a, cmd
}

func (a *App) top() Route { return a.history[len(a.history)-1] }

func (a *App) View() string {
	header := ui.TitleStyle.Render("TalentLink") + "  " + ui.AccentStyle.Render(a.current.Title())
	if name := a.opt.Session.User.Name; name != "" {
		header += "  " + ui.MutedStyle.Render("· "+name)
	}
	footer := ui.HelpStyle.Render("esc back · n notifications · i inbox · b projects · p profile · ctrl+c quit")

	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	body := a.current.View(a.width-4, bodyHeight)
	return ui.PanelString(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

// close stops the live screen; called once the program has exited.
func (a *App) close() { a.current.Close() }

// Run starts the interactive client at start and blocks until it exits.
func Run(ctx context.Context, opt Options, start Route) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := NewApp(ctx, opt, start)
	defer app.close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if app.expired {
		return ErrSessionExpired
	}
	return nil
}
