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

type projectsMsg struct {
	owner    *projectsScreen
	projects []model.Project
	err      error
}

type projectItem struct{ p model.Project }

func (i projectItem) Title() string { return i.p.Title }
func (i projectItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", ui.Capitalize(i.p.ClientName), i.p.Budget, i.p.Status)
}
func (i projectItem) FilterValue() string { return i.p.Title }

// projectsScreen lists the marketplace projects. Filtering is local to the
// loaded page.
type projectsScreen struct {
	ctx    context.Context
	cancel context.CancelFunc
	opt    Options
	list   list.Model
	status string
	loaded bool
}

func newProjectsScreen(ctx context.Context, opt Options) *projectsScreen {
	ctx, cancel := context.WithCancel(ctx)
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("project", "projects")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keyOpen, keyRefresh} }
	return &projectsScreen{ctx: ctx, cancel: cancel, opt: opt, list: l}
}

func (s *projectsScreen) Title() string   { return "Projects" }
func (s *projectsScreen) Capturing() bool { return s.list.FilterState() == list.Filtering }
func (s *projectsScreen) Init() tea.Cmd   { return s.load() }
func (s *projectsScreen) Close()          { s.cancel() }

func (s *projectsScreen) load() tea.Cmd {
	ctx, backend := s.ctx, s.opt.Backend
	return func() tea.Msg {
		projects, err := backend.Projects(ctx, "")
		return projectsMsg{owner: s, projects: projects, err: err}
	}
}

func (s *projectsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsMsg:
		if msg.owner != s {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.status = "could not load projects: " + msg.err.Error()
			return s, authFailure(msg.err)
		}
		s.status = ""
		items := make([]list.Item, 0, len(msg.projects))
		for _, p := range msg.projects {
			items = append(items, projectItem{p: p})
		}
		return s, s.list.SetItems(items)

	case tea.KeyMsg:
		if s.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, keyOpen):
				if it, ok := s.list.SelectedItem().(projectItem); ok {
					return s, navigate(ProjectRoute(it.p.ID))
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

func (s *projectsScreen) View(width, height int) string {
	h := height
	if s.status != "" {
		h--
	}
	s.list.SetSize(width, max(h, 1))
	out := s.list.View()
	if s.status != "" {
		out += "\n" + ui.ErrorStyle.Render(s.status)
	} else if s.loaded && len(s.list.Items()) == 0 {
		out += "\n" + ui.MutedStyle.Render("No projects yet.")
	}
	return out
}
