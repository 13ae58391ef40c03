package spi

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	pureio "github.com/allbin/go-pureio"
)

func TestDevicePath(t *testing.T) {
	if got := DevicePath(1, 2); got != "/dev/spidev1.2" {
		t.Errorf("DevicePath(1, 2) = %q, want %q", got, "/dev/spidev1.2")
	}
}

func TestOpenWithoutOptions(t *testing.T) {
	f := &fakeDevice{mode: 0x03, speed: 1_000_000}
	d := openFake(t, f)
	defer d.Close()

	assert.Empty(t, f.writes, "no settings are written unless asked for")
	assert.Equal(t, "/dev/spidev0.1", d.Path())
}

func TestOpenAppliesOptions(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f,
		WithMaxSpeedHz(500_000),
		WithBitsPerWord(8),
		WithMode(Mode3),
		WithCSHigh(true),
		WithPhase(false),
	)
	defer d.Close()

	assert.Equal(t, []string{
		"speed 500000",
		"bits 8",
		"mode 0x03",
		"mode 0x06",
	}, f.writes)
	assert.Equal(t, uint32(CPOL|CSHigh), f.mode)
}

func TestOpenInvalidOption(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero speed", WithMaxSpeedHz(0)},
		{"wide words", WithBitsPerWord(33)},
		{"no chip", WithChipSelectLine("", 1)},
		{"negative offset", WithChipSelectLine("gpiochip0", -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(0, 0, tt.opt)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "error = %v", err)
		})
	}
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := OpenPath("/nonexistent/spidev9.9")
	assert.True(t, errors.Is(err, pureio.ErrDeviceNotFound), "error = %v", err)
}

func TestConfigureFailureClosesDevice(t *testing.T) {
	f := &fakeDevice{}
	useConn(t, f)

	orig := requestLine
	requestLine = func(string, int, int) (csLine, error) { return nil, unix.EBUSY }
	defer func() { requestLine = orig }()

	_, err := Open(0, 0, WithChipSelectLine("gpiochip0", 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request chip select gpiochip0:3")
	assert.True(t, f.closed)
}

func TestModeFlags(t *testing.T) {
	tests := []struct {
		name string
		bit  Mode
		get  func(*Device) (bool, error)
		set  func(*Device, bool) error
	}{
		{"phase", CPHA, (*Device).Phase, (*Device).SetPhase},
		{"polarity", CPOL, (*Device).Polarity, (*Device).SetPolarity},
		{"cs high", CSHigh, (*Device).CSHigh, (*Device).SetCSHigh},
		{"lsb first", LSBFirst, (*Device).LSBFirst, (*Device).SetLSBFirst},
		{"three wire", ThreeWire, (*Device).ThreeWire, (*Device).SetThreeWire},
		{"loop", Loop, (*Device).Loop, (*Device).SetLoop},
		{"no cs", NoCS, (*Device).NoCS, (*Device).SetNoCS},
		{"ready", Ready, (*Device).Ready, (*Device).SetReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Other bits, including one above the 8 bit mode, must survive.
			f := &fakeDevice{mode: uint32(TxDual | (0xff &^ tt.bit))}
			d := openFake(t, f)

			on, err := tt.get(d)
			require.NoError(t, err)
			assert.False(t, on)

			require.NoError(t, tt.set(d, true))
			on, err = tt.get(d)
			require.NoError(t, err)
			assert.True(t, on)
			assert.Equal(t, uint32(TxDual|0xff), f.mode)

			require.NoError(t, tt.set(d, false))
			assert.Equal(t, uint32(TxDual|(0xff&^tt.bit)), f.mode)
		})
	}
}

func TestMode(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f)

	require.NoError(t, d.SetMode(Mode2|LSBFirst))
	m, err := d.Mode()
	require.NoError(t, err)
	assert.Equal(t, Mode2|LSBFirst, m)

	assert.True(t, errors.Is(d.SetMode(RxQuad), ErrInvalidConfig))

	require.NoError(t, d.SetMode32(Mode1|RxQuad|TxQuad))
	m, err = d.Mode32()
	require.NoError(t, err)
	assert.Equal(t, Mode1|RxQuad|TxQuad, m)

	m, err = d.Mode()
	require.NoError(t, err)
	assert.Equal(t, Mode1, m, "8 bit mode hides the upper flags")
}

func TestWideModeOptionUsesMode32(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f, WithMode(Mode0|TxDual|RxDual))
	defer d.Close()

	assert.Equal(t, []string{"mode32 0x500"}, f.writes)
}

func TestSpeedAndBits(t *testing.T) {
	f := &fakeDevice{speed: 100_000}
	d := openFake(t, f)

	hz, err := d.MaxSpeedHz()
	require.NoError(t, err)
	assert.Equal(t, uint32(100_000), hz)

	require.NoError(t, d.SetMaxSpeedHz(8_000_000))
	require.NoError(t, d.SetBitsPerWord(16))

	hz, err = d.MaxSpeedHz()
	require.NoError(t, err)
	assert.Equal(t, uint32(8_000_000), hz)
	bits, err := d.BitsPerWord()
	require.NoError(t, err)
	assert.Equal(t, uint8(16), bits)
}

func TestWriteBytesChunks(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f)

	data := bytes.Repeat([]byte{0x42}, 2*ChunkSize+100)
	require.NoError(t, d.WriteBytes(data, WithSpeedHz(250_000), WithDelay(5*time.Microsecond)))

	require.Len(t, f.msgs, 3)
	lens := []int{ChunkSize, ChunkSize, 100}
	for i, msg := range f.msgs {
		require.Len(t, msg, 1)
		s := msg[0]
		assert.Len(t, s.Tx, lens[i])
		assert.Nil(t, s.Rx, "half duplex write")
		assert.Equal(t, uint32(250_000), s.SpeedHz)
		assert.Equal(t, uint16(5), s.DelayUsecs)
	}

	assert.True(t, errors.Is(d.WriteBytes(nil), ErrInvalidLength))
}

func TestReadBytes(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f)

	got, err := d.ReadBytes(ChunkSize+1, WithWordBits(8))
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xa5}, ChunkSize+1), got)
	require.Len(t, f.msgs, 2)
	assert.Nil(t, f.msgs[0][0].Tx)
	assert.Equal(t, uint8(8), f.msgs[1][0].BitsPerWord)

	_, err = d.ReadBytes(0)
	assert.True(t, errors.Is(err, ErrInvalidLength))
}

func TestTransfer(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f)

	tx := []byte{0x9f, 0x01, 0x02}
	rx, err := d.Transfer(tx, WithCSChange())
	require.NoError(t, err)
	assert.Equal(t, tx, rx)
	require.Len(t, f.msgs, 1)
	assert.True(t, f.msgs[0][0].CSChange)

	_, err = d.Transfer(nil)
	assert.True(t, errors.Is(err, ErrInvalidLength))

	_, err = d.Transfer(tx, WithDelay(time.Second))
	assert.True(t, errors.Is(err, ErrInvalidDelay))
}

func TestTransferError(t *testing.T) {
	f := &fakeDevice{failMessage: unix.EMSGSIZE}
	d := openFake(t, f)

	_, err := d.Transfer(make([]byte, 8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, unix.EMSGSIZE))
	assert.Contains(t, err.Error(), "/dev/spidev0.1")
}

func TestMessage(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f)

	rx := make([]byte, 2)
	err := d.Message(
		Segment{Tx: []byte{0x03, 0x00}, CSChange: false},
		Segment{Rx: rx, SpeedHz: 1_000_000},
	)
	require.NoError(t, err)
	require.Len(t, f.msgs, 1)
	assert.Len(t, f.msgs[0], 2, "one message carries every segment")
	assert.Equal(t, []byte{0xa5, 0xa5}, rx)

	assert.True(t, errors.Is(d.Message(), ErrInvalidLength))
	err = d.Message(Segment{Tx: []byte{1}}, Segment{Tx: []byte{1, 2}, Rx: []byte{0}})
	assert.True(t, errors.Is(err, ErrInvalidLength))
	assert.Contains(t, err.Error(), "segment 1")
}

func TestClose(t *testing.T) {
	f := &fakeDevice{}
	d := openFake(t, f)

	require.NoError(t, d.Close())
	assert.True(t, f.closed)
	assert.True(t, errors.Is(d.Close(), ErrDeviceClosed))

	_, err := d.Transfer([]byte{1})
	assert.True(t, errors.Is(err, ErrDeviceClosed))
	_, err = d.Mode()
	assert.True(t, errors.Is(err, ErrDeviceClosed))
	assert.True(t, errors.Is(d.SetMaxSpeedHz(1), ErrDeviceClosed))
}

func TestChipSelectLine(t *testing.T) {
	line := &fakeLine{}
	var requested []int
	orig := requestLine
	requestLine = func(chip string, offset int, value int) (csLine, error) {
		assert.Equal(t, "gpiochip0", chip)
		assert.Equal(t, 8, offset)
		requested = append(requested, value)
		return line, nil
	}
	defer func() { requestLine = orig }()

	f := &fakeDevice{}
	d := openFake(t, f, WithNoCS(true), WithChipSelectLine("gpiochip0", 8))
	assert.Equal(t, []int{1}, requested, "active low line starts released")

	_, err := d.Transfer([]byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, line.values)

	line.values = nil
	require.NoError(t, d.SetCSHigh(true))
	_, err = d.Transfer([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, line.values, "released low, then pulsed high")

	line.values = nil
	f.failMessage = unix.EIO
	_, err = d.Transfer([]byte{1})
	require.Error(t, err)
	assert.Equal(t, []int{1, 0}, line.values, "released after a failed message")

	require.NoError(t, d.Close())
	assert.True(t, line.closed)
}
