package spi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
)

// newSim creates a simulated gpiochip, skipping when the gpio-sim module or
// configfs is not available.
func newSim(t *testing.T) *gpiosim.Simpleton {
	t.Helper()
	s, err := gpiosim.NewSimpleton(4)
	if err != nil {
		if s != nil {
			s.Close()
		}
		t.Skipf("gpio-sim unavailable: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestGPIOChipSelect(t *testing.T) {
	s := newSim(t)

	var during []int
	f := &fakeDevice{}
	f.onMessage = func() {
		v, err := s.Level(2)
		require.NoError(t, err)
		during = append(during, v)
	}
	d := openFake(t, f, WithNoCS(true), WithChipSelectLine(s.DevPath(), 2))

	level, err := s.Level(2)
	require.NoError(t, err)
	assert.Equal(t, 1, level, "active low chip select idles high")

	_, err = d.Transfer([]byte{0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, during, "asserted for the message")

	level, err = s.Level(2)
	require.NoError(t, err)
	assert.Equal(t, 1, level)

	require.NoError(t, d.SetCSHigh(true))
	level, err = s.Level(2)
	require.NoError(t, err)
	assert.Equal(t, 0, level, "active high chip select idles low")

	require.NoError(t, d.Close())
}

func TestGPIOChipSelectBadOffset(t *testing.T) {
	s := newSim(t)

	f := &fakeDevice{}
	useConn(t, f)
	_, err := Open(0, 0, WithChipSelectLine(s.DevPath(), 9))
	assert.Error(t, err)
	assert.True(t, f.closed)
}
