package spi

import (
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

// fakeDevice simulates a spidev node wired in loopback: every transfer that
// sends data receives the same bytes, and reads without tx see 0xa5.
type fakeDevice struct {
	mode  uint32
	speed uint32
	bits  uint8

	msgs   [][]Segment
	writes []string
	closed bool

	failMessage error
	onMessage   func()
}

func (f *fakeDevice) readU8(req uintptr) (uint8, error) {
	switch req {
	case rdMode:
		return uint8(f.mode), nil
	case rdBitsPerWord:
		return f.bits, nil
	}
	return 0, unix.ENOTTY
}

func (f *fakeDevice) writeU8(req uintptr, v uint8) error {
	switch req {
	case wrMode:
		f.mode = f.mode&^0xff | uint32(v)
		f.writes = append(f.writes, fmt.Sprintf("mode 0x%02x", v))
	case wrBitsPerWord:
		f.bits = v
		f.writes = append(f.writes, fmt.Sprintf("bits %d", v))
	default:
		return unix.ENOTTY
	}
	return nil
}

func (f *fakeDevice) readU32(req uintptr) (uint32, error) {
	switch req {
	case rdMode32:
		return f.mode, nil
	case rdMaxSpeedHz:
		return f.speed, nil
	}
	return 0, unix.ENOTTY
}

func (f *fakeDevice) writeU32(req uintptr, v uint32) error {
	switch req {
	case wrMode32:
		f.mode = v
		f.writes = append(f.writes, fmt.Sprintf("mode32 0x%x", v))
	case wrMaxSpeedHz:
		f.speed = v
		f.writes = append(f.writes, fmt.Sprintf("speed %d", v))
	default:
		return unix.ENOTTY
	}
	return nil
}

func (f *fakeDevice) message(segs []Segment) error {
	if f.onMessage != nil {
		f.onMessage()
	}
	if f.failMessage != nil {
		return f.failMessage
	}
	for _, s := range segs {
		if s.Rx == nil {
			continue
		}
		if s.Tx != nil {
			copy(s.Rx, s.Tx)
			continue
		}
		for i := range s.Rx {
			s.Rx[i] = 0xa5
		}
	}
	f.msgs = append(f.msgs, segs)
	return nil
}

func (f *fakeDevice) close() error {
	f.closed = true
	return nil
}

func openFake(t *testing.T, f *fakeDevice, opts ...Option) *Device {
	t.Helper()
	useConn(t, f)
	d, err := Open(0, 1, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d
}

func useConn(t *testing.T, f conn) {
	t.Helper()
	orig := openConn
	openConn = func(string) (conn, error) { return f, nil }
	t.Cleanup(func() { openConn = orig })
}

// fakeLine records chip select levels.
type fakeLine struct {
	values []int
	closed bool
}

func (l *fakeLine) SetValue(v int) error {
	l.values = append(l.values, v)
	return nil
}

func (l *fakeLine) Close() error {
	l.closed = true
	return nil
}
