package components

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/allbin/go-pureio/internal/tui/colors"
)

const (
	colReg   = "reg"
	colHex   = "hex"
	colDec   = "dec"
	colBin   = "bin"
	colASCII = "ascii"
	colAge   = "age"
)

// ChangeHighlight is how long a changed register stays highlighted.
const ChangeHighlight = 2 * time.Second

// Register is one polled register value.
type Register struct {
	Addr      byte
	Value     byte
	ChangedAt time.Time
}

// RegisterTable shows register values in a bubble-table.
type RegisterTable struct {
	table     table.Model
	showASCII bool
	height    int
	regs      []Register
	now       time.Time
}

func NewRegisterTable(height int) *RegisterTable {
	rt := &RegisterTable{
		showASCII: true,
		height:    height,
	}
	rt.rebuild()
	return rt
}

func (rt *RegisterTable) columns() []table.Column {
	cols := []table.Column{
		table.NewColumn(colReg, "Reg", 6),
		table.NewColumn(colHex, "Hex", 6),
		table.NewColumn(colDec, "Dec", 5),
		table.NewColumn(colBin, "Binary", 10),
	}
	if rt.showASCII {
		cols = append(cols, table.NewColumn(colASCII, "Chr", 5))
	}
	return append(cols, table.NewColumn(colAge, "Changed", 10))
}

func (rt *RegisterTable) pageSize() int {
	// Header and borders take four lines.
	if n := rt.height - 4; n > 1 {
		return n
	}
	return 1
}

func (rt *RegisterTable) rebuild() {
	rt.table = table.New(rt.columns()).
		WithRows(rt.rows()).
		WithPageSize(rt.pageSize()).
		Focused(true).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Accent)).
		HighlightStyle(lipgloss.NewStyle().Background(colors.Surface1)).
		WithBaseStyle(lipgloss.NewStyle().Foreground(colors.Text).BorderForeground(colors.Surface2).Align(lipgloss.Right))
}

func (rt *RegisterTable) rows() []table.Row {
	rows := make([]table.Row, len(rt.regs))
	for i, r := range rt.regs {
		age := "-"
		if !r.ChangedAt.IsZero() {
			age = rt.now.Sub(r.ChangedAt).Truncate(100 * time.Millisecond).String()
		}
		data := table.RowData{
			colReg:   fmt.Sprintf("0x%02x", r.Addr),
			colHex:   fmt.Sprintf("0x%02x", r.Value),
			colDec:   fmt.Sprintf("%d", r.Value),
			colBin:   fmt.Sprintf("%08b", r.Value),
			colASCII: ASCII([]byte{r.Value}),
			colAge:   age,
		}
		row := table.NewRow(data)
		if !r.ChangedAt.IsZero() && rt.now.Sub(r.ChangedAt) < ChangeHighlight {
			row = row.WithStyle(lipgloss.NewStyle().Foreground(colors.Changed).Bold(true))
		}
		rows[i] = row
	}
	return rows
}

// SetRegisters replaces the displayed values.
func (rt *RegisterTable) SetRegisters(regs []Register, now time.Time) {
	rt.regs = regs
	rt.now = now
	rt.table = rt.table.WithRows(rt.rows())
}

func (rt *RegisterTable) SetHeight(height int) {
	rt.height = height
	rt.table = rt.table.WithPageSize(rt.pageSize())
}

func (rt *RegisterTable) ToggleASCII() {
	rt.showASCII = !rt.showASCII
	rt.rebuild()
}

func (rt *RegisterTable) ShowASCII() bool {
	return rt.showASCII
}

func (rt *RegisterTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	rt.table, cmd = rt.table.Update(msg)
	return cmd
}

func (rt *RegisterTable) View() string {
	return rt.table.View()
}
