package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASCII(t *testing.T) {
	assert.Equal(t, "Hi.~.", ASCII([]byte{'H', 'i', 0x00, '~', 0x7f}))
}

func TestFormatBytes(t *testing.T) {
	df := NewDataFormatter(true, true)
	df.SetStyled(false)
	assert.Equal(t, "48 69 00  Hi.", df.FormatBytes([]byte("Hi\x00")))

	df.ToggleASCII()
	assert.Equal(t, "48 69", df.FormatBytes([]byte("Hi")))

	df.ToggleHex()
	assert.Equal(t, "2 bytes", df.FormatBytes([]byte("Hi")))
}

func TestHexDump(t *testing.T) {
	df := NewDataFormatter(true, false)
	df.SetStyled(false)

	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	lines := df.HexDump(0, data, nil)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "     0  1  2"))
	assert.True(t, strings.HasPrefix(lines[1], "00: 00 01 02 03"))
	assert.True(t, strings.HasPrefix(lines[2], "10: 10 11 12 13"))
}

func TestHexDumpUnalignedBase(t *testing.T) {
	df := NewDataFormatter(true, true)
	df.SetStyled(false)

	lines := df.HexDump(0x0e, []byte{'A', 'B', 'C'}, map[int]bool{0x0f: true})
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "0123456789abcdef"))
	assert.True(t, strings.HasPrefix(lines[1], "00: "+strings.Repeat("   ", 14)+"41 42 "))
	assert.True(t, strings.HasSuffix(lines[1], strings.Repeat(" ", 14)+"AB"))
	assert.True(t, strings.HasPrefix(lines[2], "10: 43 "))
}
