package models

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/allbin/go-pureio/internal/tui/components"
	"github.com/allbin/go-pureio/internal/tui/keys"
)

// Poll interval limits for the faster and slower keys.
const (
	MinInterval = 10 * time.Millisecond
	MaxInterval = 10 * time.Second
)

// RegisterReader reads one byte register of a device. *smbus.Bus satisfies it.
type RegisterReader interface {
	ReadByteData(addr uint16, cmd byte) (byte, error)
}

type tickMsg struct {
	gen int
}

// ReadMsg carries the result of one poll.
type ReadMsg struct {
	Values []byte
	Err    error
	At     time.Time
	gen    int
}

// WatchModel polls a range of registers and shows them in a table.
type WatchModel struct {
	reader RegisterReader
	info   components.WatchInfo
	logger zerolog.Logger

	regs   []components.Register
	paused bool
	gen    int
	ready  bool

	table     *components.RegisterTable
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.WatchKeys
}

func NewWatchModel(reader RegisterReader, info components.WatchInfo, logger zerolog.Logger) *WatchModel {
	if info.Interval < MinInterval {
		info.Interval = MinInterval
	}
	regs := make([]components.Register, info.Count)
	for i := range regs {
		regs[i].Addr = info.First + byte(i)
	}
	return &WatchModel{
		reader:    reader,
		info:      info,
		logger:    logger,
		regs:      regs,
		table:     components.NewRegisterTable(info.Count + 4),
		statusBar: components.NewStatusBar(info),
		help:      help.New(),
		keys:      keys.NewWatchKeys(),
	}
}

func (m *WatchModel) Registers() []components.Register {
	return m.regs
}

func (m *WatchModel) Interval() time.Duration {
	return m.info.Interval
}

func (m *WatchModel) Paused() bool {
	return m.paused
}

func (m *WatchModel) Status() string {
	return m.statusBar.Status()
}

func (m *WatchModel) Init() tea.Cmd {
	return m.read()
}

// read polls every register once, stopping at the first failure.
func (m *WatchModel) read() tea.Cmd {
	gen := m.gen
	addr, first, count := m.info.Addr, m.info.First, m.info.Count
	reader := m.reader
	return func() tea.Msg {
		values := make([]byte, 0, count)
		for i := 0; i < count; i++ {
			v, err := reader.ReadByteData(addr, first+byte(i))
			if err != nil {
				return ReadMsg{Err: err, At: time.Now(), gen: gen}
			}
			values = append(values, v)
		}
		return ReadMsg{Values: values, At: time.Now(), gen: gen}
	}
}

func (m *WatchModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.info.Interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// restart drops any pending tick and polls immediately.
func (m *WatchModel) restart() tea.Cmd {
	m.gen++
	return m.read()
}

func (m *WatchModel) apply(msg ReadMsg) {
	if msg.Err != nil {
		m.logger.Warn().Err(msg.Err).Uint16("addr", m.info.Addr).Msg("register poll failed")
		m.statusBar.SetError(msg.Err)
		return
	}
	for i, v := range msg.Values {
		if i >= len(m.regs) {
			break
		}
		r := &m.regs[i]
		// The first poll only establishes a baseline.
		if m.ready && r.Value != v {
			r.ChangedAt = msg.At
			m.logger.Debug().Uint8("reg", r.Addr).Uint8("old", r.Value).Uint8("new", v).Msg("register changed")
		}
		r.Value = v
	}
	m.ready = true
	m.table.SetRegisters(m.regs, msg.At)
	m.statusBar.SetRead(msg.At)
}

func (m *WatchModel) setInterval(d time.Duration) {
	if d < MinInterval {
		d = MinInterval
	}
	if d > MaxInterval {
		d = MaxInterval
	}
	m.info.Interval = d
	m.statusBar.SetInterval(d)
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		// Status bar and help take a line each.
		m.table.SetHeight(msg.Height - 2)
		return m, nil

	case tickMsg:
		if m.paused || msg.gen != m.gen {
			return m, nil
		}
		return m, m.read()

	case ReadMsg:
		m.apply(msg)
		if m.paused || msg.gen != m.gen {
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if m.paused {
				m.gen++
				return m, nil
			}
			return m, m.restart()

		case key.Matches(msg, m.keys.Refresh):
			if m.paused {
				return m, m.read()
			}
			return m, m.restart()

		case key.Matches(msg, m.keys.ToggleASCII):
			m.table.ToggleASCII()
			m.table.SetRegisters(m.regs, time.Now())
			return m, nil

		case key.Matches(msg, m.keys.Faster):
			m.setInterval(m.info.Interval / 2)
			return m, nil

		case key.Matches(msg, m.keys.Slower):
			m.setInterval(m.info.Interval * 2)
			return m, nil
		}
	}

	return m, m.table.Update(msg)
}

func (m *WatchModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.table.View(),
		m.statusBar.View(m.paused),
		m.help.View(m.keys),
	)
}
