package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/talentlink/internal/api"
	"github.com/Makepad-fr/talentlink/internal/model"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// loadedMsg carries the body of a one-shot detail screen.
type loadedMsg struct {
	owner *detailScreen
	lines []string
	err   error
}

// detailScreen fetches one resource on entry and shows it as a panel.
// Contract, proposal, project and profile views are all this shape.
type detailScreen struct {
	ctx    context.Context
	cancel context.CancelFunc
	title  string
	fetch  func(ctx context.Context) ([]string, error)
	lines  []string
	err    error
	loaded bool
}

func newDetailScreen(ctx context.Context, title string, fetch func(ctx context.Context) ([]string, error)) *detailScreen {
	ctx, cancel := context.WithCancel(ctx)
	return &detailScreen{ctx: ctx, cancel: cancel, title: title, fetch: fetch}
}

func (s *detailScreen) Title() string   { return s.title }
func (s *detailScreen) Capturing() bool { return false }
func (s *detailScreen) Close()          { s.cancel() }

func (s *detailScreen) Init() tea.Cmd {
	return func() tea.Msg {
		lines, err := s.fetch(s.ctx)
		return loadedMsg{owner: s, lines: lines, err: err}
	}
}

func (s *detailScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	if m, ok := msg.(loadedMsg); ok && m.owner == s {
		s.loaded = true
		s.lines, s.err = m.lines, m.err
		return s, authFailure(m.err)
	}
	return s, nil
}

func (s *detailScreen) View(width, height int) string {
	switch {
	case !s.loaded:
		return ui.MutedStyle.Render("Loading " + strings.ToLower(s.title) + "...")
	case s.err != nil:
		return ui.ErrorStyle.Render("Failed to load: " + s.err.Error())
	}
	return ui.PanelString(strings.Join(s.lines, "\n"))
}

// newContractScreen shows a contract with its reviews. A failed review
// lookup does not hide the contract.
func newContractScreen(ctx context.Context, opt Options, id int64) *detailScreen {
	return newDetailScreen(ctx, fmt.Sprintf("Contract #%d", id), func(ctx context.Context) ([]string, error) {
		c, err := opt.Backend.Contract(ctx, id)
		if err != nil {
			return nil, err
		}
		lines := ContractLines(c)
		reviews, err := opt.Backend.Reviews(ctx, id)
		switch {
		case errors.Is(err, api.ErrUnauthenticated):
			return nil, err
		case err != nil:
			log.Warn().Err(err).Int64("contract", id).Msg("load reviews")
			return append(lines, "", ui.MutedStyle.Render("Reviews unavailable.")), nil
		}
		return append(lines, ReviewLines(reviews)...), nil
	})
}

func newProposalScreen(ctx context.Context, opt Options, id int64) *detailScreen {
	return newDetailScreen(ctx, fmt.Sprintf("Proposal #%d", id), func(ctx context.Context) ([]string, error) {
		p, err := opt.Backend.Proposal(ctx, id)
		if err != nil {
			return nil, err
		}
		return ProposalLines(p), nil
	})
}

func newProjectScreen(ctx context.Context, opt Options, id int64) *detailScreen {
	return newDetailScreen(ctx, fmt.Sprintf("Project #%d", id), func(ctx context.Context) ([]string, error) {
		p, err := opt.Backend.Project(ctx, id)
		if err != nil {
			return nil, err
		}
		return ProjectLines(p), nil
	})
}

// newProfileScreen shows the user's profile and portfolio.
func newProfileScreen(ctx context.Context, opt Options) *detailScreen {
	return newDetailScreen(ctx, "Profile", func(ctx context.Context) ([]string, error) {
		p, err := opt.Backend.Profile(ctx)
		if err != nil {
			return nil, err
		}
		items, err := opt.Backend.Portfolio(ctx)
		if err != nil {
			return nil, err
		}
		return append(ProfileLines(p), PortfolioLines(items)...), nil
	})
}

// ContractLines renders a contract for a panel.
func ContractLines(c *model.Contract) []string {
	return []string{
		ui.AccentStyle.Render(c.Proposal.ProjectTitle),
		ui.Field("Status", ui.Status(c.Status)),
		ui.Field("Client", ui.Capitalize(c.ClientName)),
		ui.Field("Freelancer", ui.Capitalize(c.FreelancerName)),
		ui.Field("Agreed rate", string(c.Proposal.ProposedRate)),
		ui.Field("Start", c.StartDate),
		ui.Field("End", c.EndDate),
	}
}

// ProposalLines renders a proposal for a panel.
func ProposalLines(p *model.Proposal) []string {
	return []string{
		ui.AccentStyle.Render(p.ProjectTitle),
		ui.Field("Freelancer", ui.Capitalize(p.FreelancerName)),
		ui.Field("Budget", string(p.ProposedRate)),
		ui.Field("Status", ui.Status(p.Status)),
		"",
		p.CoverLetter,
	}
}

// ProfileLines renders a profile for a panel.
func ProfileLines(p *model.Profile) []string {
	skills := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		skills = append(skills, s.Name)
	}
	lines := []string{
		ui.Field("Full Name", p.FullName),
		ui.Field("Hourly Rate", string(p.HourlyRate)),
		ui.Field("Availability", p.Availability),
	}
	if p.Phone != "" {
		lines = append(lines, ui.Field("Phone", p.Phone))
	}
	if p.Location != "" {
		lines = append(lines, ui.Field("Location", p.Location))
	}
	return append(lines, ui.Field("Skills", strings.Join(skills, ", ")))
}

// ProjectLines renders a project for a panel.
func ProjectLines(p *model.Project) []string {
	skills := make([]string, 0, len(p.Skills))
	for _, sk := range p.Skills {
		skills = append(skills, sk.Name)
	}
	duration := ""
	if p.Duration > 0 {
		duration = fmt.Sprintf("%d days", p.Duration)
	}
	lines := []string{
		ui.AccentStyle.Render(p.Title),
		ui.Field("Client", ui.Capitalize(p.ClientName)),
		ui.Field("Budget", string(p.Budget)),
		ui.Field("Duration", duration),
		ui.Field("Skills", strings.Join(skills, ", ")),
		ui.Field("Status", ui.Status(p.Status)),
	}
	if !p.Open() {
		lines = append(lines, ui.MutedStyle.Render("Not taking proposals."))
	}
	if p.Description != "" {
		lines = append(lines, "", p.Description)
	}
	return lines
}

// ReviewLines renders the reviews section of a contract.
func ReviewLines(reviews []model.Review) []string {
	lines := []string{"", ui.TitleStyle.Render("Reviews")}
	if len(reviews) == 0 {
		return append(lines, ui.MutedStyle.Render("No reviews yet."))
	}
	for _, r := range reviews {
		stars := strings.Repeat("★", max(min(r.Rating, 5), 0))
		lines = append(lines, fmt.Sprintf("%s %s", ui.Capitalize(r.ReviewerName), ui.PendingStyle.Render(stars)))
		if r.Comment != "" {
			lines = append(lines, "  "+r.Comment)
		}
	}
	return lines
}

// PortfolioLines renders the portfolio section of a profile.
func PortfolioLines(items []model.PortfolioItem) []string {
	lines := []string{"", ui.TitleStyle.Render("Portfolio")}
	if len(items) == 0 {
		return append(lines, ui.MutedStyle.Render("No portfolio items yet."))
	}
	for _, it := range items {
		lines = append(lines, ui.AccentStyle.Render(it.Title))
		if it.Description != "" {
			lines = append(lines, "  "+it.Description)
		}
		if it.URL != "" {
			lines = append(lines, "  "+ui.MutedStyle.Render(it.URL))
		}
	}
	return lines
}
