package colors

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha tones used by the CLI
var (
	Base     = lipgloss.Color("#1e1e2e")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Surface2 = lipgloss.Color("#585b70")
	Overlay0 = lipgloss.Color("#6c7086")
	Subtext0 = lipgloss.Color("#a6adc8")
	Subtext1 = lipgloss.Color("#bac2de")
	Text     = lipgloss.Color("#cdd6f4")

	Blue   = lipgloss.Color("#89b4fa")
	Sky    = lipgloss.Color("#89dceb")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
	Peach  = lipgloss.Color("#fab387")
	Red    = lipgloss.Color("#f38ba8")
	Mauve  = lipgloss.Color("#cba6f7")
)

// Roles the palette plays on a bus
var (
	Present = Green    // device answered
	Busy    = Yellow   // address owned by a kernel driver
	Absent  = Overlay0 // nothing there
	Changed = Peach    // register changed since the last poll
	Accent  = Mauve
	Muted   = Subtext0
	Failure = Red
)
