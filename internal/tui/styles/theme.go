package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-pureio/internal/tui/colors"
	"github.com/allbin/go-pureio/smbus"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Accent).
			Background(colors.Surface0).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Accent).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colors.Surface1)

	// Probe result styles
	PresentStyle = lipgloss.NewStyle().
			Foreground(colors.Present).
			Bold(true)

	BusyStyle = lipgloss.NewStyle().
			Foreground(colors.Busy).
			Bold(true)

	AbsentStyle = lipgloss.NewStyle().
			Foreground(colors.Absent)

	// Register styles
	ChangedStyle = lipgloss.NewStyle().
			Foreground(colors.Changed).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colors.Muted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(colors.Text)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Failure)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Present)
)

// ProbeStyle returns the style a probe result is drawn with.
func ProbeStyle(r smbus.ProbeResult) lipgloss.Style {
	switch r {
	case smbus.Present:
		return PresentStyle
	case smbus.Busy:
		return BusyStyle
	default:
		return AbsentStyle
	}
}

// FlagStyle renders a capability or mode flag as present or absent.
func FlagStyle(on bool) lipgloss.Style {
	if on {
		return PresentStyle
	}
	return AbsentStyle
}
