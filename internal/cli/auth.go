package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Makepad-fr/talentlink/internal/api"
	"github.com/Makepad-fr/talentlink/internal/auth"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// AuthCommand returns the auth command
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the stored session",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
					&cli.StringFlag{Name: "password", Usage: "Account password (prompted when omitted)"},
				},
				Action: runAuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
					&cli.StringFlag{Name: "password", Usage: "Account password (prompted when omitted)"},
					&cli.StringFlag{Name: "role", Value: "freelancer", Usage: "Account role: freelancer or client"},
				},
				Action: runAuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: runAuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show where the session comes from and when it expires",
				Action: runAuthStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in user and token claims",
				Action: runAuthWhoAmI,
			},
		},
	}
}

func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func runAuthLogin(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	e.console()

	email, password := c.String("email"), c.String("password")
	in := bufio.NewReader(c.App.Reader)
	if email == "" {
		if email, err = prompt(in, ui.Out, "Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompt(in, ui.Out, "Password: "); err != nil {
			return err
		}
	}
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	sess, err := e.client(nil).Login(c.Context, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := e.store.Save(*sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	name := sess.User.Name
	if name == "" {
		name = email
	}
	ui.OK("logged in as " + name)
	return nil
}

func runAuthRegister(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	e.console()

	role := strings.ToLower(c.String("role"))
	if role != "freelancer" && role != "client" {
		return fmt.Errorf("role must be freelancer or client, got %q", c.String("role"))
	}
	req := api.RegisterRequest{
		Username: c.String("username"),
		Email:    c.String("email"),
		Password: c.String("password"),
		Role:     role,
	}
	in := bufio.NewReader(c.App.Reader)
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Username: ", &req.Username},
		{"Email: ", &req.Email},
		{"Password: ", &req.Password},
	} {
		if *f.dst != "" {
			continue
		}
		if *f.dst, err = prompt(in, ui.Out, f.label); err != nil {
			return err
		}
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errors.New("username, email and password are required")
	}

	if err := e.client(nil).Register(c.Context, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	ui.OK("registered " + req.Username + ", now run: talentlink auth login")
	return nil
}

func runAuthLogout(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	creds, _ := e.store.Load()
	if creds != nil && creds.Source == "env" {
		ui.OK("session is provided by " + auth.TokenEnv + " (nothing to delete)")
		return nil
	}
	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	ui.OK("logged out")
	return nil
}

func runAuthStatus(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	creds, err := e.store.Load()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		ui.Muted("not logged in")
		fmt.Fprintln(ui.Out, "Run: talentlink auth login")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.Out, "source: %s\n", creds.Source)
	switch {
	case creds.ExpiresAt == nil:
		fmt.Fprintln(ui.Out, "expires: (unknown)")
	case creds.Expired(time.Now()):
		fmt.Fprintf(ui.Out, "expires: %s\n", creds.ExpiresAt.UTC().Format(time.RFC3339))
		ui.Fail("access token expired. Run: talentlink auth login")
	default:
		fmt.Fprintf(ui.Out, "expires: %s\n", creds.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(ui.Out, "env override: "+auth.TokenEnv)
	return nil
}

// whoami prints the stored user and, for JWTs, the unverified claims.
func runAuthWhoAmI(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	creds, err := e.session()
	if err != nil {
		return err
	}
	u := creds.Session.User
	lines := []string{
		ui.Field("User ID", fmt.Sprint(u.ID)),
		ui.Field("Name", u.Name),
		ui.Field("Email", u.Email),
		ui.Field("Role", ui.Capitalize(u.Role)),
		ui.Field("Source", creds.Source),
	}

	claims, err := auth.ParseClaims(creds.Session.Access)
	if err != nil {
		lines = append(lines, "", ui.MutedStyle.Render("Opaque token (cannot introspect locally)."))
		ui.Panel(lines)
		return nil
	}
	keys := make([]string, 0, len(claims.Raw))
	for k := range claims.Raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines = append(lines, "", ui.AccentStyle.Render("Token claims"))
	for _, k := range keys {
		lines = append(lines, ui.Field(k, claimText(claims.Raw[k])))
	}
	ui.Panel(lines)
	return nil
}

// claimText prints numeric claims (exp, iat, user_id) without exponents.
func claimText(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}
