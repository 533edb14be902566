package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ------- shared styling (Lip Gloss) -------
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	UnreadStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	HelpStyle     = lipgloss.NewStyle().Faint(true)

	OwnBubble   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("33")).Padding(0, 1)
	OtherBubble = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)

	DotUnread = "●"
	DotRead   = "○"
)

// Out and Err are where OK and Fail print; tests swap them.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

func OK(msg string) {
	fmt.Fprintln(Out, SuccessStyle.Render("✔ "+msg))
}

func Fail(msg string) {
	fmt.Fprintln(Err, ErrorStyle.Render("✖ "+msg))
}

// Muted prints a faint hint line.
func Muted(msg string) {
	fmt.Fprintln(Out, MutedStyle.Render(msg))
}
