// Package smbus provides SMBus and plain I2C access through the Linux i2c-dev
// interface, with the call surface of the python smbus module.
//
//	bus, err := smbus.Open(1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Close()
//
//	v, err := bus.ReadByteData(0x48, 0x01)
//
// Operations that address a register use combined I2C_RDWR transactions, so
// the register write and the data read happen without releasing the bus.
// Plain reads and writes select the slave address with I2C_SLAVE first.
package smbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/allbin/go-pureio/internal/devfs"
)

// Message flags from include/uapi/linux/i2c.h.
const (
	MsgRead       = 0x0001 // read data from slave to master
	MsgTen        = 0x0010 // ten bit chip address
	MsgRecvLen    = 0x0400 // first received byte is the length
	MsgIgnoreNak  = 0x1000
	MsgRevDirAddr = 0x2000
	MsgNoStart    = 0x4000
	MsgStop       = 0x8000
)

// Msg is one segment of a combined I2C transaction.
type Msg struct {
	Addr  uint16
	Flags uint16
	Buf   []byte
}

// Bus is an open /dev/i2c-N adapter.
type Bus struct {
	mu     sync.Mutex
	conn   conn
	path   string
	config Config

	// last address selected with I2C_SLAVE
	addr     uint16
	selected bool
}

// NewBus returns a bus that is not yet open.
func NewBus(opts ...Option) (*Bus, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}
	return &Bus{config: config}, nil
}

// Open opens /dev/i2c-<bus>.
func Open(bus int, opts ...Option) (*Bus, error) {
	return OpenPath(DevicePath(bus), opts...)
}

// OpenPath opens the adapter at path.
func OpenPath(path string, opts ...Option) (*Bus, error) {
	b, err := NewBus(opts...)
	if err != nil {
		return nil, err
	}
	if err := b.OpenPath(path); err != nil {
		return nil, err
	}
	return b, nil
}

// DevicePath returns the device node of an adapter number.
func DevicePath(bus int) string {
	return fmt.Sprintf("/dev/i2c-%d", bus)
}

// Open (re)opens the bus on /dev/i2c-<bus>. A handle that is already open is
// closed first.
func (b *Bus) Open(bus int) error {
	return b.OpenPath(DevicePath(bus))
}

// OpenPath (re)opens the bus on the adapter at path.
func (b *Bus) OpenPath(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		if err := b.closeLocked(); err != nil {
			return err
		}
	}

	c, err := openConn(path)
	if err != nil {
		return err
	}
	if err := configure(c, b.config); err != nil {
		c.close()
		return errors.Wrapf(err, "configure %s", path)
	}

	b.conn = c
	b.path = path
	b.selected = false
	b.config.Logger.Debug().Str("path", path).Bool("force", b.config.Force).Msg("i2c bus opened")
	return nil
}

func configure(c conn, config Config) error {
	if config.TenBit {
		if err := c.ioctl(i2cTenBit, 1); err != nil {
			return errors.Wrap(err, "enable ten bit addressing")
		}
	}
	if config.PEC {
		if err := c.ioctl(i2cPEC, 1); err != nil {
			return errors.Wrap(err, "enable PEC")
		}
	}
	if config.Retries != nil {
		if err := c.ioctl(i2cRetries, uintptr(*config.Retries)); err != nil {
			return errors.Wrap(err, "set retries")
		}
	}
	if config.Timeout > 0 {
		if err := c.ioctl(i2cTimeout, uintptr(config.Timeout/(10*time.Millisecond))); err != nil {
			return errors.Wrap(err, "set timeout")
		}
	}
	return nil
}

// Close closes the bus.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return ErrBusClosed
	}
	return b.closeLocked()
}

func (b *Bus) closeLocked() error {
	err := b.conn.close()
	b.conn = nil
	b.selected = false
	b.config.Logger.Debug().Str("path", b.path).Msg("i2c bus closed")
	return err
}

// Path returns the device node the bus was opened on.
func (b *Bus) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// SetForce switches between I2C_SLAVE and I2C_SLAVE_FORCE address selection.
func (b *Bus) SetForce(force bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.config.Force != force {
		b.config.Force = force
		b.selected = false
	}
}

// SetPEC enables or disables packet error checking on an open bus.
func (b *Bus) SetPEC(enable bool) error {
	return b.with(func(c conn) error {
		var v uintptr
		if enable {
			v = 1
		}
		if err := c.ioctl(i2cPEC, v); err != nil {
			return errors.Wrap(err, "set PEC")
		}
		b.config.PEC = enable
		return nil
	})
}

// with runs fn on the open connection.
func (b *Bus) with(fn func(c conn) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return ErrBusClosed
	}
	return fn(b.conn)
}

// withAddr validates addr and runs fn on the open connection.
func (b *Bus) withAddr(addr uint16, fn func(c conn) error) error {
	return b.with(func(c conn) error {
		if err := b.checkAddr(addr); err != nil {
			return err
		}
		return fn(c)
	})
}

// maxAddr is the highest address the bus accepts in its addressing mode.
func (b *Bus) maxAddr() uint16 {
	if b.config.TenBit {
		return 0x3ff
	}
	return 0x7f
}

func (b *Bus) checkAddr(addr uint16) error {
	if addr > b.maxAddr() {
		return errors.Wrapf(ErrInvalidAddress, "0x%02x", addr)
	}
	return nil
}

// selectDevice points the file handle at addr unless it already is.
func (b *Bus) selectDevice(c conn, addr uint16) error {
	if b.selected && b.addr == addr {
		return nil
	}
	req := uintptr(i2cSlave)
	if b.config.Force {
		req = i2cSlaveForce
	}
	if err := c.ioctl(req, uintptr(addr)); err != nil {
		b.selected = false
		return devfs.Classify(err, "select address 0x%02x", addr)
	}
	b.addr = addr
	b.selected = true
	return nil
}

func (b *Bus) msgFlags(flags uint16) uint16 {
	if b.config.TenBit {
		flags |= MsgTen
	}
	return flags
}

func (b *Bus) readRaw(c conn, addr uint16, buf []byte) error {
	if err := b.selectDevice(c, addr); err != nil {
		return err
	}
	n, err := c.read(buf)
	if err != nil {
		return devfs.Classify(err, "read from 0x%02x", addr)
	}
	if n != len(buf) {
		return errors.Wrapf(ErrShortTransfer, "read %d of %d bytes from 0x%02x", n, len(buf), addr)
	}
	b.trace("read", addr, buf)
	return nil
}

func (b *Bus) writeRaw(c conn, addr uint16, buf []byte) error {
	if err := b.selectDevice(c, addr); err != nil {
		return err
	}
	n, err := c.write(buf)
	if err != nil {
		return devfs.Classify(err, "write to 0x%02x", addr)
	}
	if n != len(buf) {
		return errors.Wrapf(ErrShortTransfer, "wrote %d of %d bytes to 0x%02x", n, len(buf), addr)
	}
	b.trace("write", addr, buf)
	return nil
}

// readRegister writes cmd and reads len(buf) bytes back in one transaction.
func (b *Bus) readRegister(c conn, addr uint16, cmd byte, buf []byte) error {
	msgs := []Msg{
		{Addr: addr, Flags: b.msgFlags(0), Buf: []byte{cmd}},
		{Addr: addr, Flags: b.msgFlags(MsgRead), Buf: buf},
	}
	if err := c.rdwr(msgs); err != nil {
		return devfs.Classify(err, "read register 0x%02x from 0x%02x", cmd, addr)
	}
	b.trace("read register", addr, buf)
	return nil
}

func (b *Bus) trace(op string, addr uint16, buf []byte) {
	b.config.Logger.Trace().Str("path", b.path).Uint16("addr", addr).Hex("data", buf).Msg(op)
}

// ReceiveByte reads a single byte from a device without a register: the
// SMBus "receive byte" protocol, read_byte in python smbus.
func (b *Bus) ReceiveByte(addr uint16) (byte, error) {
	buf, err := b.ReadBytes(addr, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadBytes reads n bytes from a device without a register.
func (b *Bus) ReadBytes(addr uint16, n int) ([]byte, error) {
	if n <= 0 || n > maxMsgLen {
		return nil, errors.Wrapf(ErrInvalidLength, "read of %d bytes", n)
	}
	buf := make([]byte, n)
	err := b.withAddr(addr, func(c conn) error {
		return b.readRaw(c, addr, buf)
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadByteData reads a single byte from register cmd.
func (b *Bus) ReadByteData(addr uint16, cmd byte) (byte, error) {
	buf := make([]byte, 1)
	err := b.withAddr(addr, func(c conn) error {
		return b.readRegister(c, addr, cmd, buf)
	})
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadWordData reads a little endian 16 bit word from register cmd.
func (b *Bus) ReadWordData(addr uint16, cmd byte) (uint16, error) {
	buf := make([]byte, 2)
	err := b.withAddr(addr, func(c conn) error {
		return b.readRegister(c, addr, cmd, buf)
	})
	if err != nil {
		return 0, err
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

// ReadBlockData performs an SMBus block read: the device returns a count
// byte followed by up to 32 data bytes.
func (b *Bus) ReadBlockData(addr uint16, cmd byte) ([]byte, error) {
	var out []byte
	err := b.withAddr(addr, func(c conn) error {
		if err := b.selectDevice(c, addr); err != nil {
			return err
		}
		var data smbusData
		if err := c.smbus(smbusRead, cmd, smbusBlockData, &data); err != nil {
			return devfs.Classify(err, "block read register 0x%02x from 0x%02x", cmd, addr)
		}
		count := int(data[0])
		if count > BlockMax {
			return errors.Wrapf(ErrInvalidLength, "device returned block of %d bytes", count)
		}
		out = append([]byte(nil), data[1:1+count]...)
		b.trace("block read", addr, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadI2CBlockData reads n bytes starting at register cmd.
func (b *Bus) ReadI2CBlockData(addr uint16, cmd byte, n int) ([]byte, error) {
	if n <= 0 || n > maxMsgLen {
		return nil, errors.Wrapf(ErrInvalidLength, "block read of %d bytes", n)
	}
	buf := make([]byte, n)
	err := b.withAddr(addr, func(c conn) error {
		return b.readRegister(c, addr, cmd, buf)
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteQuick sends only the address with the write bit set.
func (b *Bus) WriteQuick(addr uint16) error {
	return b.withAddr(addr, func(c conn) error {
		if err := b.selectDevice(c, addr); err != nil {
			return err
		}
		if err := c.smbus(smbusWrite, 0, smbusQuick, nil); err != nil {
			return devfs.Classify(err, "quick write to 0x%02x", addr)
		}
		return nil
	})
}

// SendByte writes a single byte without a register: the SMBus "send byte"
// protocol, write_byte in python smbus.
func (b *Bus) SendByte(addr uint16, value byte) error {
	return b.WriteBytes(addr, []byte{value})
}

// WriteBytes writes buf to a device as one plain I2C write.
func (b *Bus) WriteBytes(addr uint16, buf []byte) error {
	if len(buf) == 0 || len(buf) > maxMsgLen {
		return errors.Wrapf(ErrInvalidLength, "write of %d bytes", len(buf))
	}
	return b.withAddr(addr, func(c conn) error {
		return b.writeRaw(c, addr, buf)
	})
}

// WriteByteData writes value to register cmd.
func (b *Bus) WriteByteData(addr uint16, cmd, value byte) error {
	return b.WriteBytes(addr, []byte{cmd, value})
}

// WriteWordData writes a little endian 16 bit word to register cmd.
func (b *Bus) WriteWordData(addr uint16, cmd byte, value uint16) error {
	return b.WriteBytes(addr, []byte{cmd, byte(value), byte(value >> 8)})
}

// WriteBlockData performs an SMBus block write: register, count, data.
func (b *Bus) WriteBlockData(addr uint16, cmd byte, data []byte) error {
	if len(data) > BlockMax {
		return errors.Wrapf(ErrInvalidLength, "block write of %d bytes", len(data))
	}
	buf := make([]byte, 0, len(data)+2)
	buf = append(buf, cmd, byte(len(data)))
	buf = append(buf, data...)
	return b.WriteBytes(addr, buf)
}

// WriteI2CBlockData writes data starting at register cmd, without a count
// byte.
func (b *Bus) WriteI2CBlockData(addr uint16, cmd byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, cmd)
	buf = append(buf, data...)
	return b.WriteBytes(addr, buf)
}

// ProcessCall writes a word to register cmd and reads a word back in the
// same transaction.
func (b *Bus) ProcessCall(addr uint16, cmd byte, value uint16) (uint16, error) {
	in := make([]byte, 2)
	err := b.withAddr(addr, func(c conn) error {
		msgs := []Msg{
			{Addr: addr, Flags: b.msgFlags(0), Buf: []byte{cmd, byte(value), byte(value >> 8)}},
			{Addr: addr, Flags: b.msgFlags(MsgRead), Buf: in},
		}
		if err := c.rdwr(msgs); err != nil {
			return devfs.Classify(err, "process call 0x%02x on 0x%02x", cmd, addr)
		}
		b.trace("process call", addr, in)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint16(in[0]) | uint16(in[1])<<8, nil
}

// BlockProcessCall writes a block to register cmd and reads a block back.
func (b *Bus) BlockProcessCall(addr uint16, cmd byte, data []byte) ([]byte, error) {
	if len(data) > BlockMax {
		return nil, errors.Wrapf(ErrInvalidLength, "block process call of %d bytes", len(data))
	}
	var out []byte
	err := b.withAddr(addr, func(c conn) error {
		if err := b.selectDevice(c, addr); err != nil {
			return err
		}
		var buf smbusData
		buf[0] = byte(len(data))
		copy(buf[1:], data)
		if err := c.smbus(smbusWrite, cmd, smbusBlockProcCall, &buf); err != nil {
			return devfs.Classify(err, "block process call 0x%02x on 0x%02x", cmd, addr)
		}
		count := int(buf[0])
		if count > BlockMax {
			return errors.Wrapf(ErrInvalidLength, "device returned block of %d bytes", count)
		}
		out = append([]byte(nil), buf[1:1+count]...)
		b.trace("block process call", addr, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer runs msgs as one combined transaction with a repeated start
// between messages. Read messages are filled in place.
func (b *Bus) Transfer(msgs ...Msg) error {
	if len(msgs) == 0 {
		return errors.Wrap(ErrInvalidLength, "empty transfer")
	}
	if len(msgs) > maxMsgs {
		return errors.Wrapf(ErrTooManyMessages, "%d messages, at most %d", len(msgs), maxMsgs)
	}
	return b.with(func(c conn) error {
		// Copies share Buf with the caller, so reads still land in place.
		sent := make([]Msg, len(msgs))
		for i, m := range msgs {
			if err := b.checkAddr(m.Addr); err != nil {
				return err
			}
			if len(m.Buf) > maxMsgLen {
				return errors.Wrapf(ErrInvalidLength, "message of %d bytes", len(m.Buf))
			}
			m.Flags = b.msgFlags(m.Flags)
			sent[i] = m
		}
		if err := c.rdwr(sent); err != nil {
			return devfs.Classify(err, "transfer of %d messages", len(msgs))
		}
		b.config.Logger.Trace().Str("path", b.path).Int("msgs", len(msgs)).Msg("transfer")
		return nil
	})
}

// Logger returns the bus logger.
func (b *Bus) Logger() *zerolog.Logger {
	return &b.config.Logger
}
