package smbus

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	f := newFakeBus()
	f.add(0x1d)
	f.add(0x50)
	f.add(0x68)
	f.busy[0x68] = true
	b := openFake(t, f)

	tests := []struct {
		addr uint16
		want ProbeResult
		op   string
	}{
		{0x1d, Present, "smbus 0 0x00 size 0"},
		{0x50, Present, "smbus 1 0x00 size 1"},
		{0x68, Busy, ""},
		{0x22, Absent, ""},
	}

	for _, tt := range tests {
		f.ops = nil
		got, err := b.Probe(tt.addr)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Probe(0x%02x)", tt.addr)
		if tt.op != "" {
			assert.Contains(t, f.ops, tt.op, "Probe(0x%02x)", tt.addr)
		}
	}
}

func TestProbeClosed(t *testing.T) {
	b, err := NewBus()
	require.NoError(t, err)

	_, err = b.Probe(0x20)
	assert.True(t, errors.Is(err, ErrBusClosed))
}

func TestScan(t *testing.T) {
	f := newFakeBus()
	f.add(0x08)
	f.add(0x77)
	b := openFake(t, f)

	results, err := b.Scan(0x03, 0x77)
	require.NoError(t, err)
	assert.Len(t, results, 0x77-0x03+1)
	assert.Equal(t, Present, results[0x08])
	assert.Equal(t, Present, results[0x77])
	assert.Equal(t, Absent, results[0x10])

	_, err = b.Scan(0x10, 0x08)
	assert.True(t, errors.Is(err, ErrInvalidAddress))
}

func TestScanClampsToAddressLimit(t *testing.T) {
	f := newFakeBus()
	f.add(0x7f)
	b := openFake(t, f)

	results, err := b.Scan(0x70, 0xff)
	require.NoError(t, err)
	assert.Len(t, results, 0x10, "stops at 0x7f on a 7-bit bus")
	assert.Equal(t, Present, results[0x7f])

	_, err = b.Scan(0x80, 0xff)
	assert.True(t, errors.Is(err, ErrInvalidAddress))
}

func TestProbeResultString(t *testing.T) {
	for r, want := range map[ProbeResult]string{
		Absent:  "absent",
		Present: "present",
		Busy:    "busy",
	} {
		if got := r.String(); got != want {
			t.Errorf("ProbeResult(%d).String() = %q, want %q", r, got, want)
		}
	}
}
