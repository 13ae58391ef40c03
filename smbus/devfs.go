package smbus

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/allbin/go-pureio/internal/devfs"
	"github.com/allbin/go-pureio/internal/ioctl"
)

// Request numbers from include/uapi/linux/i2c-dev.h.
const (
	i2cRetries    = 0x0701
	i2cTimeout    = 0x0702
	i2cSlave      = 0x0703
	i2cTenBit     = 0x0704
	i2cFuncs      = 0x0705
	i2cSlaveForce = 0x0706
	i2cRdwr       = 0x0707
	i2cPEC        = 0x0708
	i2cSMBus      = 0x0720
)

// SMBus transaction types and directions from include/uapi/linux/i2c.h.
const (
	smbusWrite = 0
	smbusRead  = 1

	smbusQuick         = 0
	smbusByte          = 1
	smbusBlockData     = 5
	smbusBlockProcCall = 7

	// BlockMax is the largest SMBus block transfer.
	BlockMax = 32

	// maxMsgs is I2C_RDWR_IOCTL_MAX_MSGS.
	maxMsgs = 42
	// maxMsgLen is the largest message i2c-dev accepts.
	maxMsgLen = 8192
)

// smbusData mirrors union i2c_smbus_data: a byte, a host-endian word, or a
// block whose first byte is the count.
type smbusData [BlockMax + 2]byte

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   unsafe.Pointer
}

type i2cRdwrIoctlData struct {
	msgs  unsafe.Pointer
	nmsgs uint32
}

type i2cSMBusIoctlData struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      unsafe.Pointer
}

// conn is the file-level access a Bus needs. The devfs implementation talks to
// /dev/i2c-N; tests substitute a simulated bus.
type conn interface {
	read(p []byte) (int, error)
	write(p []byte) (int, error)
	ioctl(req, arg uintptr) error
	funcs() (uint, error)
	rdwr(msgs []Msg) error
	smbus(readWrite, command uint8, size uint32, data *smbusData) error
	close() error
}

var openConn = func(path string) (conn, error) {
	fd, err := devfs.Open(path)
	if err != nil {
		return nil, err
	}
	return &devfsConn{fd: fd}, nil
}

type devfsConn struct {
	fd int
}

func (c *devfsConn) read(p []byte) (int, error) {
	return unix.Read(c.fd, p)
}

func (c *devfsConn) write(p []byte) (int, error) {
	return unix.Write(c.fd, p)
}

func (c *devfsConn) ioctl(req, arg uintptr) error {
	return ioctl.Ioctl(c.fd, req, arg)
}

func (c *devfsConn) funcs() (uint, error) {
	// The kernel writes an unsigned long, which is uint on linux.
	var f uint
	if err := ioctl.IoctlPtr(c.fd, i2cFuncs, unsafe.Pointer(&f)); err != nil {
		return 0, err
	}
	return f, nil
}

func (c *devfsConn) rdwr(msgs []Msg) error {
	raw := make([]i2cMsg, len(msgs))
	for i, m := range msgs {
		raw[i] = i2cMsg{
			addr:  m.Addr,
			flags: m.Flags,
			len:   uint16(len(m.Buf)),
		}
		if len(m.Buf) > 0 {
			raw[i].buf = unsafe.Pointer(&m.Buf[0])
		}
	}
	data := i2cRdwrIoctlData{
		msgs:  unsafe.Pointer(&raw[0]),
		nmsgs: uint32(len(raw)),
	}
	err := ioctl.IoctlPtr(c.fd, i2cRdwr, unsafe.Pointer(&data))
	runtime.KeepAlive(msgs)
	runtime.KeepAlive(raw)
	return err
}

func (c *devfsConn) smbus(readWrite, command uint8, size uint32, data *smbusData) error {
	args := i2cSMBusIoctlData{
		readWrite: readWrite,
		command:   command,
		size:      size,
	}
	if data != nil {
		args.data = unsafe.Pointer(data)
	}
	err := ioctl.IoctlPtr(c.fd, i2cSMBus, unsafe.Pointer(&args))
	runtime.KeepAlive(data)
	return err
}

func (c *devfsConn) close() error {
	return devfs.Close(c.fd)
}
