package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-pureio/internal/tui/colors"
)

// WatchInfo describes what a watch view is polling.
type WatchInfo struct {
	BusPath  string
	Addr     uint16
	First    byte
	Count    int
	Interval time.Duration
}

type StatusBar struct {
	info     WatchInfo
	status   string
	err      error
	width    int
	lastRead time.Time
}

func NewStatusBar(info WatchInfo) *StatusBar {
	return &StatusBar{
		info:   info,
		status: "Initializing...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetInterval(d time.Duration) {
	sb.info.Interval = d
}

// SetRead records a successful poll.
func (sb *StatusBar) SetRead(at time.Time) {
	sb.lastRead = at
	sb.status = "Watching"
	sb.err = nil
}

// SetError records a failed poll.
func (sb *StatusBar) SetError(err error) {
	sb.err = err
	if err != nil {
		sb.status = fmt.Sprintf("Read failed: %v", err)
	}
}

func (sb *StatusBar) Status() string {
	return sb.status
}

// View renders the status line. paused switches the mode segment.
func (sb *StatusBar) View(paused bool) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	// Mode segment
	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1)
	modeText := "WATCH"
	if paused {
		modeStyle = modeStyle.Background(colors.Yellow)
		modeText = "PAUSED"
	}
	mode := modeStyle.Render(modeText)

	// Bus and device
	target := lipgloss.NewStyle().
		Foreground(colors.Accent).
		Bold(true).
		Padding(0, 1).
		Render(fmt.Sprintf("%s@0x%02x", sb.info.BusPath, sb.info.Addr))

	indicatorStyle := lipgloss.NewStyle().Foreground(colors.Present)
	indicator := "●"
	if sb.err != nil {
		indicatorStyle = lipgloss.NewStyle().Foreground(colors.Failure)
		indicator = "✗"
	} else if sb.lastRead.IsZero() {
		indicatorStyle = lipgloss.NewStyle().Foreground(colors.Busy)
		indicator = "○"
	}

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	last := int(sb.info.First) + sb.info.Count - 1
	details := lipgloss.NewStyle().
		Foreground(colors.Muted).
		Padding(0, 1).
		Render(fmt.Sprintf("regs 0x%02x-0x%02x every %v", sb.info.First, last, sb.info.Interval))

	stamp := "--:--:--.---"
	if !sb.lastRead.IsZero() {
		stamp = sb.lastRead.Format("15:04:05.000")
	}
	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(stamp)

	left := lipgloss.JoinHorizontal(lipgloss.Left, mode, target, indicatorStyle.Render(indicator), divider)
	right := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, clock)

	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}
