package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Makepad-fr/talentlink/internal/api"
	"github.com/Makepad-fr/talentlink/internal/model"
	"github.com/Makepad-fr/talentlink/internal/tui"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// ProjectsCommand returns the projects command
func ProjectsCommand() *cli.Command {
	return &cli.Command{
		Name:      "projects",
		Usage:     "Browse marketplace projects, or show one",
		ArgsUsage: "[project-id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Only projects matching `TEXT`"},
		},
		Action: runProjects,
	}
}

// ContractsCommand returns the contracts command
func ContractsCommand() *cli.Command {
	return &cli.Command{
		Name:      "contracts",
		Usage:     "List contracts, or show one",
		ArgsUsage: "[contract-id]",
		Action:    runContracts,
	}
}

// ProposalsCommand returns the proposals command
func ProposalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "proposals",
		Usage:     "List proposals, or show one",
		ArgsUsage: "[proposal-id]",
		Action:    runProposals,
	}
}

// ProfileCommand returns the profile command
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show your profile",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user", Aliases: []string{"u"}, Usage: "Show another user's public profile"},
		},
		Action: runProfile,
	}
}

// authed loads config and session and returns a client for a one-shot command.
func authed(c *cli.Context) (*env, *api.Client, error) {
	e, err := loadEnv(c)
	if err != nil {
		return nil, nil, err
	}
	e.console()
	creds, err := e.session()
	if err != nil {
		return nil, nil, err
	}
	return e, e.client(creds), nil
}

func runContracts(c *cli.Context) error {
	e, client, err := authed(c)
	if err != nil {
		return err
	}
	if c.NArg() > 0 {
		id, err := parseID(c, "contract")
		if err != nil {
			return err
		}
		ct, err := client.Contract(c.Context, id)
		if err != nil {
			return e.expire(fmt.Errorf("contract %d: %w", id, err))
		}
		reviews, err := client.Reviews(c.Context, id)
		if err != nil {
			return e.expire(fmt.Errorf("reviews for contract %d: %w", id, err))
		}
		ui.Panel(append(tui.ContractLines(ct), tui.ReviewLines(reviews)...))
		return nil
	}

	contracts, err := client.Contracts(c.Context)
	if err != nil {
		return e.expire(fmt.Errorf("contracts: %w", err))
	}
	lines := []string{ui.TitleStyle.Render(fmt.Sprintf("Contracts (%d)", len(contracts))), ""}
	if len(contracts) == 0 {
		lines = append(lines, ui.MutedStyle.Render("No contracts yet."))
	}
	for _, ct := range contracts {
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s",
			ui.MutedStyle.Render(fmt.Sprintf("#%-4d", ct.ID)),
			ct.Proposal.ProjectTitle,
			ui.Status(ct.Status),
			ui.MutedStyle.Render(ui.Capitalize(ct.ClientName)+" / "+ui.Capitalize(ct.FreelancerName)),
		))
	}
	ui.Panel(lines)
	return nil
}

func runProposals(c *cli.Context) error {
	e, client, err := authed(c)
	if err != nil {
		return err
	}
	if c.NArg() > 0 {
		id, err := parseID(c, "proposal")
		if err != nil {
			return err
		}
		p, err := client.Proposal(c.Context, id)
		if err != nil {
			return e.expire(fmt.Errorf("proposal %d: %w", id, err))
		}
		ui.Panel(tui.ProposalLines(p))
		return nil
	}

	proposals, err := client.Proposals(c.Context)
	if err != nil {
		return e.expire(fmt.Errorf("proposals: %w", err))
	}
	lines := []string{ui.TitleStyle.Render(fmt.Sprintf("Proposals (%d)", len(proposals))), ""}
	if len(proposals) == 0 {
		lines = append(lines, ui.MutedStyle.Render("No proposals yet."))
	}
	for _, p := range proposals {
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s",
			ui.MutedStyle.Render(fmt.Sprintf("#%-4d", p.ID)),
			p.ProjectTitle,
			ui.Status(p.Status),
			ui.MutedStyle.Render(string(p.ProposedRate)),
		))
	}
	ui.Panel(lines)
	return nil
}

func runProfile(c *cli.Context) error {
	e, client, err := authed(c)
	if err != nil {
		return err
	}
	var (
		p     *model.Profile
		items []model.PortfolioItem
	)
	if id := c.Int64("user"); id > 0 {
		if p, err = client.UserProfile(c.Context, id); err == nil {
			items, err = client.UserPortfolio(c.Context, id)
		}
	} else if p, err = client.Profile(c.Context); err == nil {
		items, err = client.Portfolio(c.Context)
	}
	if err != nil {
		return e.expire(fmt.Errorf("profile: %w", err))
	}
	ui.Panel(append(tui.ProfileLines(p), tui.PortfolioLines(items)...))
	return nil
}

func runProjects(c *cli.Context) error {
	e, client, err := authed(c)
	if err != nil {
		return err
	}
	if c.NArg() > 0 {
		id, err := parseID(c, "project")
		if err != nil {
			return err
		}
		p, err := client.Project(c.Context, id)
		if err != nil {
			return e.expire(fmt.Errorf("project %d: %w", id, err))
		}
		ui.Panel(tui.ProjectLines(p))
		return nil
	}

	projects, err := client.Projects(c.Context, c.String("search"))
	if err != nil {
		return e.expire(fmt.Errorf("projects: %w", err))
	}
	lines := []string{ui.TitleStyle.Render(fmt.Sprintf("Projects (%d)", len(projects))), ""}
	if len(projects) == 0 {
		lines = append(lines, ui.MutedStyle.Render("No projects found."))
	}
	for _, p := range projects {
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s",
			ui.MutedStyle.Render(fmt.Sprintf("#%-4d", p.ID)),
			p.Title,
			ui.Status(p.Status),
			ui.MutedStyle.Render(string(p.Budget)+" · "+ui.Capitalize(p.ClientName)),
		))
	}
	ui.Panel(lines)
	return nil
}
