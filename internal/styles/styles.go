// Package styles holds the colours used when printing audit records to a
// terminal.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Gray   = lipgloss.Color("#888888")
	Muted  = lipgloss.Color("#555555")
	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)

var (
	// Header is used for table column titles.
	Header = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// MutedText is for placeholders such as "-".
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// StatusStyle returns the style for a record status. A changed "ok" task
// is highlighted like Ansible does.
func StatusStyle(status string, changed bool) lipgloss.Style {
	switch status {
	case "ok":
		if changed {
			return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
		}
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "failed":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusLabel renders status, appending "(changed)" for changed tasks.
func StatusLabel(status string, changed bool) string {
	label := status
	if changed {
		label += " (changed)"
	}
	return StatusStyle(status, changed).Render(label)
}
