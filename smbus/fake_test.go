package smbus

import (
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

// fakeDevice is a register file with an auto-incrementing pointer, like most
// sensors and EEPROMs.
type fakeDevice struct {
	regs  [256]byte
	ptr   byte
	block map[byte][]byte
}

func (d *fakeDevice) readInto(p []byte) {
	for i := range p {
		p[i] = d.regs[d.ptr]
		d.ptr++
	}
}

func (d *fakeDevice) writeFrom(p []byte) {
	if len(p) == 0 {
		return
	}
	d.ptr = p[0]
	for _, v := range p[1:] {
		d.regs[d.ptr] = v
		d.ptr++
	}
}

type ioctlCall struct {
	req uintptr
	arg uintptr
}

// fakeBus simulates an i2c-dev adapter with devices at fixed addresses.
type fakeBus struct {
	devices  map[uint16]*fakeDevice
	busy     map[uint16]bool
	funcBits uint

	selected    uint16
	hasSelected bool
	closed      bool
	shortRead   bool

	ioctls []ioctlCall
	ops    []string
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		devices: map[uint16]*fakeDevice{},
		busy:    map[uint16]bool{},
	}
}

func (f *fakeBus) add(addr uint16) *fakeDevice {
	d := &fakeDevice{block: map[byte][]byte{}}
	f.devices[addr] = d
	return d
}

func (f *fakeBus) current() (*fakeDevice, error) {
	if !f.hasSelected {
		return nil, unix.EINVAL
	}
	d, ok := f.devices[f.selected]
	if !ok {
		return nil, unix.ENXIO
	}
	return d, nil
}

func (f *fakeBus) read(p []byte) (int, error) {
	d, err := f.current()
	if err != nil {
		return 0, err
	}
	f.ops = append(f.ops, fmt.Sprintf("read 0x%02x %d", f.selected, len(p)))
	if f.shortRead {
		d.readInto(p[:len(p)-1])
		return len(p) - 1, nil
	}
	d.readInto(p)
	return len(p), nil
}

func (f *fakeBus) write(p []byte) (int, error) {
	d, err := f.current()
	if err != nil {
		return 0, err
	}
	f.ops = append(f.ops, fmt.Sprintf("write 0x%02x % x", f.selected, p))
	d.writeFrom(p)
	return len(p), nil
}

func (f *fakeBus) ioctl(req, arg uintptr) error {
	f.ioctls = append(f.ioctls, ioctlCall{req, arg})
	switch req {
	case i2cSlave:
		if f.busy[uint16(arg)] {
			return unix.EBUSY
		}
		fallthrough
	case i2cSlaveForce:
		f.selected = uint16(arg)
		f.hasSelected = true
		f.ops = append(f.ops, fmt.Sprintf("select 0x%02x", arg))
	}
	return nil
}

func (f *fakeBus) funcs() (uint, error) {
	return f.funcBits, nil
}

func (f *fakeBus) rdwr(msgs []Msg) error {
	op := "rdwr"
	for _, m := range msgs {
		d, ok := f.devices[m.Addr&0x3ff]
		if !ok {
			return unix.ENXIO
		}
		if m.Flags&MsgRead != 0 {
			d.readInto(m.Buf)
			op += fmt.Sprintf(" r0x%02x(%d)", m.Addr, len(m.Buf))
		} else {
			d.writeFrom(m.Buf)
			op += fmt.Sprintf(" w0x%02x[% x]", m.Addr, m.Buf)
		}
	}
	f.ops = append(f.ops, op)
	return nil
}

func (f *fakeBus) smbus(readWrite, command uint8, size uint32, data *smbusData) error {
	d, err := f.current()
	if err != nil {
		return err
	}
	f.ops = append(f.ops, fmt.Sprintf("smbus %d 0x%02x size %d", readWrite, command, size))
	switch size {
	case smbusQuick:
	case smbusByte:
		d.readInto(data[:1])
	case smbusBlockData:
		blk := d.block[command]
		data[0] = byte(len(blk))
		copy(data[1:], blk)
	case smbusBlockProcCall:
		n := int(data[0])
		in := append([]byte(nil), data[1:1+n]...)
		for i, v := range in {
			data[n-i] = v
		}
	default:
		return unix.EINVAL
	}
	return nil
}

func (f *fakeBus) close() error {
	f.closed = true
	return nil
}

// openFake opens a bus backed by f.
func openFake(t *testing.T, f conn, opts ...Option) *Bus {
	t.Helper()
	useConn(t, f)
	b, err := Open(1, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return b
}

func useConn(t *testing.T, f conn) {
	t.Helper()
	orig := openConn
	openConn = func(string) (conn, error) { return f, nil }
	t.Cleanup(func() { openConn = orig })
}
