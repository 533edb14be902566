// Package cli wires the talentlink subcommands: session management, the
// interactive views and a few one-shot commands for scripts.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/Makepad-fr/talentlink/internal/api"
	"github.com/Makepad-fr/talentlink/internal/auth"
	"github.com/Makepad-fr/talentlink/internal/config"
	"github.com/Makepad-fr/talentlink/internal/logging"
)

// errSessionExpired is what the user sees after the backend rejected the token.
var errSessionExpired = errors.New("session expired, please login again")

// NewApp builds the talentlink command tree.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "talentlink",
		Usage:   "TalentLink in your terminal: chat, notifications and contracts",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log at debug level",
			},
		},
		Commands: []*cli.Command{
			AuthCommand(),
			InboxCommand(),
			ChatCommand(),
			NotificationsCommand(),
			SendCommand(),
			ProjectsCommand(),
			ContractsCommand(),
			ProposalsCommand(),
			ProfileCommand(),
			ConfigCommand(),
		},
	}
}

// env is what every command loads first.
type env struct {
	cfg   *config.Config
	store *auth.Store
}

func loadEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.Bool("debug") {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &env{cfg: cfg, store: auth.NewStore(cfg.Data.Dir)}, nil
}

// console sets up logging for a one-shot command.
func (e *env) console() {
	logging.SetupConsole(e.cfg.Log.Level)
}

// logFile sets up logging for an interactive command, which owns the terminal.
func (e *env) logFile() (io.Closer, error) {
	return logging.SetupFile(e.cfg.LogFile(), e.cfg.Log.Level)
}

func (e *env) client(creds *auth.Credentials) *api.Client {
	opts := []api.Option{api.WithRateLimit(e.cfg.API.RatePerSecond, e.cfg.API.Burst)}
	if creds != nil {
		opts = append(opts, api.WithToken(creds.Session.Access))
	}
	return api.New(e.cfg.API.BaseURL, opts...)
}

// session returns the stored credentials or a hint to log in.
func (e *env) session() (*auth.Credentials, error) {
	creds, err := e.store.Load()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return nil, errors.New("not logged in. Run: talentlink auth login")
	}
	if err != nil {
		return nil, err
	}
	return creds, nil
}

// expire clears the stored session when err says the token was rejected.
func (e *env) expire(err error) error {
	if !errors.Is(err, api.ErrUnauthenticated) {
		return err
	}
	if cerr := e.store.Clear(); cerr != nil {
		log.Error().Err(cerr).Msg("clear session")
	}
	return errSessionExpired
}

// parseID reads the first positional argument as an id.
func parseID(c *cli.Context, what string) (int64, error) {
	if c.NArg() < 1 {
		return 0, fmt.Errorf("usage: talentlink %s <%s-id>", c.Command.Name, what)
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: not an id: %s", c.Command.Name, c.Args().First())
	}
	return id, nil
}
