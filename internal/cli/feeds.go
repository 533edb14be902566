package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/Makepad-fr/talentlink/internal/api"
	"github.com/Makepad-fr/talentlink/internal/feed"
	"github.com/Makepad-fr/talentlink/internal/model"
	"github.com/Makepad-fr/talentlink/internal/tui"
	"github.com/Makepad-fr/talentlink/internal/ui"
)

// InboxCommand returns the inbox command
func InboxCommand() *cli.Command {
	return &cli.Command{
		Name:  "inbox",
		Usage: "Browse conversations (interactive)",
		Action: func(c *cli.Context) error {
			return runInteractive(c, tui.ConversationsRoute())
		},
	}
}

// ChatCommand returns the chat command
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Open the chat thread with a user (interactive)",
		ArgsUsage: "<user-id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c, "user")
			if err != nil {
				return err
			}
			return runInteractive(c, tui.ThreadRoute(id))
		},
	}
}

// NotificationsCommand returns the notifications command
func NotificationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "notifications",
		Usage: "Show notifications (interactive unless --plain)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "plain", Usage: "Print once and exit"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("plain") {
				return runNotificationsPlain(c)
			}
			return runInteractive(c, tui.NotificationsRoute())
		},
		Subcommands: []*cli.Command{
			{
				Name:      "read",
				Usage:     "Mark a notification read and show where it leads",
				ArgsUsage: "<notification-id>",
				Action:    runNotificationsRead,
			},
		},
	}
}

// SendCommand returns the send command
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send a chat message",
		ArgsUsage: "<user-id> <text...>",
		Action:    runSend,
	}
}

// runInteractive starts the Bubble Tea client at start. Logs go to the
// log file while the program owns the terminal.
func runInteractive(c *cli.Context, start tui.Route) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	creds, err := e.session()
	if err != nil {
		return err
	}
	closer, err := e.logFile()
	if err != nil {
		return err
	}
	defer closer.Close()

	if creds.Expired(time.Now()) {
		log.Warn().Time("expires_at", *creds.ExpiresAt).Msg("access token past its exp claim")
	}

	err = tui.Run(c.Context, tui.Options{
		Backend:               e.client(creds),
		Session:               creds.Session,
		MessagesInterval:      e.cfg.Poll.MessagesInterval,
		NotificationsInterval: e.cfg.Poll.NotificationsInterval,
		ReadGracePolls:        e.cfg.Poll.ReadGracePolls,
		OnSessionExpired:      e.store.Clear,
	}, start)
	if errors.Is(err, tui.ErrSessionExpired) {
		return errSessionExpired
	}
	return err
}

func notificationLine(n model.Notification) string {
	dot := ui.MutedStyle.Render(ui.DotRead)
	text := ui.TitleStyle.Render(n.ActorName) + " " + n.Verb
	if n.Unread {
		dot = ui.UnreadStyle.Render(ui.DotUnread)
		text = ui.UnreadStyle.Render(n.ActorName + " " + n.Verb)
	}
	stamp := ui.MutedStyle.Render(n.Timestamp.Local().Format("Jan 2 15:04"))
	return fmt.Sprintf("%s %s  %s  %s", dot, text, stamp, ui.MutedStyle.Render(fmt.Sprintf("#%d", n.ID)))
}

// loadInbox fetches one notification snapshot into a fresh inbox, the
// same reconciliation the interactive panel runs on every poll.
func loadInbox(c *cli.Context, e *env, client *api.Client) (*feed.Inbox, error) {
	started := time.Now()
	items, err := client.Notifications(c.Context)
	if err != nil {
		return nil, e.expire(err)
	}
	inbox := feed.NewInbox(e.cfg.Poll.ReadGracePolls)
	inbox.Apply(feed.Snapshot[model.Notification]{Source: uuid.New(), Seq: 1, StartedAt: started, Items: items})
	return inbox, nil
}

func runNotificationsPlain(c *cli.Context) error {
	e, client, err := authed(c)
	if err != nil {
		return err
	}
	inbox, err := loadInbox(c, e, client)
	if err != nil {
		return err
	}

	lines := []string{fmt.Sprintf("%s   %s %d",
		ui.TitleStyle.Render("Notifications"),
		ui.UnreadStyle.Render(ui.DotUnread), inbox.UnreadCount(),
	), ""}
	items := inbox.Items()
	if len(items) == 0 {
		lines = append(lines, ui.MutedStyle.Render("No notifications."))
	}
	for _, n := range items {
		lines = append(lines, notificationLine(n))
	}
	ui.Panel(lines)
	return nil
}

func runNotificationsRead(c *cli.Context) error {
	id, err := parseID(c, "notification")
	if err != nil {
		return err
	}
	e, client, err := authed(c)
	if err != nil {
		return err
	}
	inbox, err := loadInbox(c, e, client)
	if err != nil {
		return err
	}

	target, ok := inbox.MarkRead(id)
	if !ok {
		return fmt.Errorf("notification %d not found", id)
	}
	err = client.MarkNotificationRead(c.Context, id)
	inbox.Acknowledge(id, err)
	if err != nil {
		return e.expire(fmt.Errorf("mark read: %w", err))
	}

	ui.OK(fmt.Sprintf("notification %d marked read", id))
	if target.Route != feed.RouteNone {
		ui.Muted(fmt.Sprintf("opens %s %d", target.Route, target.ID))
	}
	return nil
}

func runSend(c *cli.Context) error {
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}
	e, client, err := authed(c)
	if err != nil {
		return err
	}

	thread := feed.NewThread(id)
	thread.SetDraft(strings.Join(c.Args().Tail(), " "))
	m, err := thread.Send(c.Context, client)
	if errors.Is(err, feed.ErrEmptyMessage) {
		return fmt.Errorf("send: %w", err)
	}
	if err != nil {
		return e.expire(fmt.Errorf("send: %w", err))
	}
	ui.OK(fmt.Sprintf("sent message #%d", m.ID))
	return nil
}
