package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-pureio/internal/tui/colors"
)

type DisplayMode struct {
	ShowHex   bool
	ShowASCII bool
}

// DataFormatter renders bus data as hex and printable ASCII.
type DataFormatter struct {
	mode   DisplayMode
	styled bool
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:   showHex,
			ShowASCII: showASCII,
		},
		styled: true,
	}
}

// SetStyled turns lipgloss styling of the output on or off.
func (df *DataFormatter) SetStyled(styled bool) {
	df.styled = styled
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

// ASCII replaces non-printable bytes with dots.
func ASCII(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// FormatBytes renders data on one line in the current display mode.
func (df *DataFormatter) FormatBytes(data []byte) string {
	var parts []string

	if df.mode.ShowHex {
		parts = append(parts, fmt.Sprintf("% x", data))
	}
	if df.mode.ShowASCII {
		ascii := ASCII(data)
		if df.styled {
			ascii = lipgloss.NewStyle().Foreground(colors.Muted).Render(ascii)
		}
		parts = append(parts, ascii)
	}
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("%d bytes", len(data)))
	}

	return strings.Join(parts, "  ")
}

// HexDump renders data as i2cdump style rows of 16 bytes, labelled with
// their offset from base. Offsets in changed are highlighted.
func (df *DataFormatter) HexDump(base int, data []byte, changed map[int]bool) []string {
	header := "    "
	for i := 0; i < 16; i++ {
		header += fmt.Sprintf(" %x ", i)
	}
	if df.mode.ShowASCII {
		header += "   0123456789abcdef"
	}
	lines := []string{df.style(header, colors.Accent)}

	start := base &^ 0xf
	for row := start; row < base+len(data); row += 16 {
		var line strings.Builder
		line.WriteString(df.style(fmt.Sprintf("%02x: ", row), colors.Muted))

		var ascii []byte
		for col := 0; col < 16; col++ {
			off := row + col
			if off < base || off >= base+len(data) {
				line.WriteString("   ")
				ascii = append(ascii, ' ')
				continue
			}
			v := data[off-base]
			cell := fmt.Sprintf("%02x ", v)
			if changed[off] {
				cell = df.style(cell, colors.Changed)
			}
			line.WriteString(cell)
			ascii = append(ascii, v)
		}
		if df.mode.ShowASCII {
			line.WriteString("   ")
			line.WriteString(df.style(ASCII(ascii), colors.Muted))
		}
		lines = append(lines, line.String())
	}
	return lines
}

func (df *DataFormatter) style(s string, c lipgloss.Color) string {
	if !df.styled {
		return s
	}
	return lipgloss.NewStyle().Foreground(c).Render(s)
}
