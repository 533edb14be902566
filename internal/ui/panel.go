package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var panelBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

// PanelString frames inner in a rounded box.
func PanelString(inner string) string {
	return panelBorder.Render(inner)
}

// Panel prints lines framed in a rounded box.
func Panel(lines []string) {
	fmt.Fprintln(Out, PanelString(strings.Join(lines, "\n")))
}

// Field renders "label: value", or "label: N/A" for an empty value.
func Field(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = MutedStyle.Render("N/A")
	}
	return TitleStyle.Render(label+":") + " " + value
}

// Capitalize upper-cases the first letter, for user names.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// Status colors a contract or proposal status.
func Status(status string) string {
	switch strings.ToLower(status) {
	case "accepted", "active", "completed":
		return SuccessStyle.Render(Capitalize(status))
	case "rejected", "cancelled":
		return ErrorStyle.Render(Capitalize(status))
	default:
		return PendingStyle.Render(Capitalize(status))
	}
}
