package spi

import (
	"runtime"
	"unsafe"

	"github.com/allbin/go-pureio/internal/devfs"
	"github.com/allbin/go-pureio/internal/ioctl"
)

const magic = 'k'

// Request numbers from include/uapi/linux/spi/spidev.h.
var (
	rdMode        = ioctl.IOR(magic, 1, 1)
	wrMode        = ioctl.IOW(magic, 1, 1)
	rdBitsPerWord = ioctl.IOR(magic, 3, 1)
	wrBitsPerWord = ioctl.IOW(magic, 3, 1)
	rdMaxSpeedHz  = ioctl.IOR(magic, 4, 4)
	wrMaxSpeedHz  = ioctl.IOW(magic, 4, 4)
	rdMode32      = ioctl.IOR(magic, 5, 4)
	wrMode32      = ioctl.IOW(magic, 5, 4)
)

// iocTransfer mirrors struct spi_ioc_transfer.
type iocTransfer struct {
	txBuf          uint64
	rxBuf          uint64
	len            uint32
	speedHz        uint32
	delayUsecs     uint16
	bitsPerWord    uint8
	csChange       uint8
	txNbits        uint8
	rxNbits        uint8
	wordDelayUsecs uint8
	pad            uint8
}

// messageRequest returns SPI_IOC_MESSAGE(n).
func messageRequest(n int) uintptr {
	return ioctl.IOW(magic, 0, uintptr(n)*unsafe.Sizeof(iocTransfer{}))
}

// conn is the file-level access a Device needs.
type conn interface {
	readU8(req uintptr) (uint8, error)
	writeU8(req uintptr, v uint8) error
	readU32(req uintptr) (uint32, error)
	writeU32(req uintptr, v uint32) error
	message(segs []Segment) error
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

func (c *devfsConn) readU8(req uintptr) (uint8, error) {
	var v uint8
	err := ioctl.IoctlPtr(c.fd, req, unsafe.Pointer(&v))
	return v, err
}

func (c *devfsConn) writeU8(req uintptr, v uint8) error {
	return ioctl.IoctlPtr(c.fd, req, unsafe.Pointer(&v))
}

func (c *devfsConn) readU32(req uintptr) (uint32, error) {
	var v uint32
	err := ioctl.IoctlPtr(c.fd, req, unsafe.Pointer(&v))
	return v, err
}

func (c *devfsConn) writeU32(req uintptr, v uint32) error {
	return ioctl.IoctlPtr(c.fd, req, unsafe.Pointer(&v))
}

func (c *devfsConn) message(segs []Segment) error {
	xfers := make([]iocTransfer, len(segs))
	for i, s := range segs {
		xfers[i] = s.ioc()
	}
	err := ioctl.IoctlPtr(c.fd, messageRequest(len(xfers)), unsafe.Pointer(&xfers[0]))
	runtime.KeepAlive(segs)
	runtime.KeepAlive(xfers)
	return err
}

func (c *devfsConn) close() error {
	return devfs.Close(c.fd)
}
