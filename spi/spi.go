// Package spi provides SPI access through the Linux spidev interface, with
// the call surface of the python spidev module.
//
//	dev, err := spi.Open(0, 0, spi.WithMaxSpeedHz(1_000_000), spi.WithMode(spi.Mode0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	rx, err := dev.Transfer([]byte{0x9f, 0, 0, 0})
//
// Settings are read from and written to the driver on every call, so several
// handles on the same device node see each other's changes.
package spi

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/allbin/go-pureio/internal/devfs"
)

// ChunkSize is the largest half duplex transfer sent in one message.
const ChunkSize = 4096

// Device is an open /dev/spidevB.C node.
type Device struct {
	mu     sync.Mutex
	conn   conn
	path   string
	cs     *chipSelect
	logger zerolog.Logger
}

// DevicePath returns the device node of a bus and chip select.
func DevicePath(bus, chip int) string {
	return fmt.Sprintf("/dev/spidev%d.%d", bus, chip)
}

// Open opens /dev/spidev<bus>.<chip>.
func Open(bus, chip int, opts ...Option) (*Device, error) {
	return OpenPath(DevicePath(bus, chip), opts...)
}

// OpenPath opens the spidev node at path and applies the given options.
func OpenPath(path string, opts ...Option) (*Device, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	c, err := openConn(path)
	if err != nil {
		return nil, err
	}
	d := &Device{conn: c, path: path, logger: config.Logger}
	if err := d.configure(config); err != nil {
		c.close()
		return nil, errors.Wrapf(err, "configure %s", path)
	}

	d.logger.Debug().Str("path", path).Msg("spi device opened")
	return d, nil
}

func (d *Device) configure(config Config) error {
	if config.MaxSpeedHz != nil {
		if err := d.conn.writeU32(wrMaxSpeedHz, *config.MaxSpeedHz); err != nil {
			return errors.Wrap(err, "set max speed")
		}
	}
	if config.BitsPerWord != nil {
		if err := d.conn.writeU8(wrBitsPerWord, *config.BitsPerWord); err != nil {
			return errors.Wrap(err, "set bits per word")
		}
	}
	if config.Mode != nil {
		if err := d.writeMode(*config.Mode); err != nil {
			return err
		}
	}
	if config.Set != 0 || config.Clear != 0 {
		m, err := d.readMode(config.Set | config.Clear)
		if err != nil {
			return err
		}
		if err := d.writeMode(m&^config.Clear | config.Set); err != nil {
			return err
		}
	}
	if config.ChipSelect != nil {
		m, err := d.readMode(0)
		if err != nil {
			return err
		}
		cs, err := newChipSelect(*config.ChipSelect, m.Has(CSHigh))
		if err != nil {
			return err
		}
		d.cs = cs
	}
	return nil
}

// Close closes the device and releases the chip select line.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return ErrDeviceClosed
	}
	err := d.conn.close()
	d.conn = nil
	if d.cs != nil {
		if cerr := d.cs.close(); err == nil {
			err = cerr
		}
		d.cs = nil
	}
	d.logger.Debug().Str("path", d.path).Msg("spi device closed")
	return err
}

// Path returns the device node.
func (d *Device) Path() string {
	return d.path
}

func (d *Device) with(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return ErrDeviceClosed
	}
	return fn()
}

// readMode reads the mode word, using the 32 bit request when any bit of
// wide lies above the 8 bit mode.
func (d *Device) readMode(wide Mode) (Mode, error) {
	if wide > 0xff {
		v, err := d.conn.readU32(rdMode32)
		if err != nil {
			return 0, devfs.Classify(err, "read mode of %s", d.path)
		}
		return Mode(v), nil
	}
	v, err := d.conn.readU8(rdMode)
	if err != nil {
		return 0, devfs.Classify(err, "read mode of %s", d.path)
	}
	return Mode(v), nil
}

func (d *Device) writeMode(m Mode) error {
	var err error
	if m > 0xff {
		err = d.conn.writeU32(wrMode32, uint32(m))
	} else {
		err = d.conn.writeU8(wrMode, uint8(m))
	}
	if err != nil {
		return devfs.Classify(err, "set mode %v on %s", m, d.path)
	}
	if d.cs != nil {
		return d.cs.setActiveHigh(m.Has(CSHigh))
	}
	return nil
}

// Mode returns the 8 bit mode.
func (d *Device) Mode() (Mode, error) {
	var m Mode
	err := d.with(func() error {
		var err error
		m, err = d.readMode(0)
		return err
	})
	return m, err
}

// SetMode sets the 8 bit mode.
func (d *Device) SetMode(m Mode) error {
	if m > 0xff {
		return errors.Wrapf(ErrInvalidConfig, "mode 0x%x needs SetMode32", uint32(m))
	}
	return d.with(func() error {
		return d.writeMode(m)
	})
}

// Mode32 returns the full 32 bit mode, including dual and quad flags.
func (d *Device) Mode32() (Mode, error) {
	var m Mode
	err := d.with(func() error {
		var err error
		m, err = d.readMode(0x100)
		return err
	})
	return m, err
}

// SetMode32 sets the full 32 bit mode.
func (d *Device) SetMode32(m Mode) error {
	return d.with(func() error {
		if err := d.conn.writeU32(wrMode32, uint32(m)); err != nil {
			return devfs.Classify(err, "set mode %v on %s", m, d.path)
		}
		if d.cs != nil {
			return d.cs.setActiveHigh(m.Has(CSHigh))
		}
		return nil
	})
}

func (d *Device) flag(bit Mode) (bool, error) {
	var on bool
	err := d.with(func() error {
		m, err := d.readMode(bit)
		on = m.Has(bit)
		return err
	})
	return on, err
}

func (d *Device) setFlag(bit Mode, on bool) error {
	return d.with(func() error {
		m, err := d.readMode(bit)
		if err != nil {
			return err
		}
		if on {
			m |= bit
		} else {
			m &^= bit
		}
		return d.writeMode(m)
	})
}

// Phase reports whether data is sampled on the trailing clock edge.
func (d *Device) Phase() (bool, error) { return d.flag(CPHA) }

// SetPhase sets the clock phase.
func (d *Device) SetPhase(on bool) error { return d.setFlag(CPHA, on) }

// Polarity reports whether the clock idles high.
func (d *Device) Polarity() (bool, error) { return d.flag(CPOL) }

// SetPolarity sets the clock polarity.
func (d *Device) SetPolarity(on bool) error { return d.setFlag(CPOL, on) }

// CSHigh reports whether chip select is active high.
func (d *Device) CSHigh() (bool, error) { return d.flag(CSHigh) }

// SetCSHigh sets the chip select level.
func (d *Device) SetCSHigh(on bool) error { return d.setFlag(CSHigh, on) }

// LSBFirst reports whether words are sent least significant bit first.
func (d *Device) LSBFirst() (bool, error) { return d.flag(LSBFirst) }

// SetLSBFirst sets the bit order.
func (d *Device) SetLSBFirst(on bool) error { return d.setFlag(LSBFirst, on) }

// ThreeWire reports whether data shares one line.
func (d *Device) ThreeWire() (bool, error) { return d.flag(ThreeWire) }

// SetThreeWire enables or disables 3-wire mode.
func (d *Device) SetThreeWire(on bool) error { return d.setFlag(ThreeWire, on) }

// Loop reports whether loopback is enabled.
func (d *Device) Loop() (bool, error) { return d.flag(Loop) }

// SetLoop enables or disables loopback.
func (d *Device) SetLoop(on bool) error { return d.setFlag(Loop, on) }

// NoCS reports whether the controller chip select is disabled.
func (d *Device) NoCS() (bool, error) { return d.flag(NoCS) }

// SetNoCS disables or enables the controller chip select.
func (d *Device) SetNoCS(on bool) error { return d.setFlag(NoCS, on) }

// Ready reports whether the slave may pull low to pause.
func (d *Device) Ready() (bool, error) { return d.flag(Ready) }

// SetReady sets the ready flag.
func (d *Device) SetReady(on bool) error { return d.setFlag(Ready, on) }

// MaxSpeedHz returns the default clock rate.
func (d *Device) MaxSpeedHz() (uint32, error) {
	var hz uint32
	err := d.with(func() error {
		var err error
		hz, err = d.conn.readU32(rdMaxSpeedHz)
		return devfs.Classify(err, "read max speed of %s", d.path)
	})
	return hz, err
}

// SetMaxSpeedHz sets the default clock rate. The controller may round it
// down.
func (d *Device) SetMaxSpeedHz(hz uint32) error {
	return d.with(func() error {
		return devfs.Classify(d.conn.writeU32(wrMaxSpeedHz, hz), "set max speed of %s", d.path)
	})
}

// BitsPerWord returns the word size; 0 means 8.
func (d *Device) BitsPerWord() (uint8, error) {
	var bits uint8
	err := d.with(func() error {
		var err error
		bits, err = d.conn.readU8(rdBitsPerWord)
		return devfs.Classify(err, "read bits per word of %s", d.path)
	})
	return bits, err
}

// SetBitsPerWord sets the word size.
func (d *Device) SetBitsPerWord(bits uint8) error {
	return d.with(func() error {
		return devfs.Classify(d.conn.writeU8(wrBitsPerWord, bits), "set bits per word of %s", d.path)
	})
}

// message sends segs as one SPI_IOC_MESSAGE, framed by the GPIO chip select
// when there is one.
func (d *Device) message(segs []Segment) error {
	if d.cs != nil {
		if err := d.cs.assert(); err != nil {
			return err
		}
	}
	err := d.conn.message(segs)
	if d.cs != nil {
		if cerr := d.cs.deassert(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return devfs.Classify(err, "transfer on %s", d.path)
	}
	for _, s := range segs {
		d.logger.Trace().Str("path", d.path).Hex("tx", s.Tx).Hex("rx", s.Rx).Msg("segment")
	}
	return nil
}

// WriteBytes sends data half duplex, one message per ChunkSize bytes.
func (d *Device) WriteBytes(data []byte, opts ...TransferOption) error {
	var tmpl Segment
	if err := applyTransferOptions(&tmpl, opts); err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.Wrap(ErrInvalidLength, "empty write")
	}
	return d.with(func() error {
		for off := 0; off < len(data); off += ChunkSize {
			seg := tmpl
			seg.Tx = data[off:min(off+ChunkSize, len(data))]
			if err := d.message([]Segment{seg}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadBytes clocks in n bytes half duplex, one message per ChunkSize bytes.
func (d *Device) ReadBytes(n int, opts ...TransferOption) ([]byte, error) {
	var tmpl Segment
	if err := applyTransferOptions(&tmpl, opts); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "read of %d bytes", n)
	}
	buf := make([]byte, n)
	err := d.with(func() error {
		for off := 0; off < n; off += ChunkSize {
			seg := tmpl
			seg.Rx = buf[off:min(off+ChunkSize, n)]
			if err := d.message([]Segment{seg}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Transfer sends tx and returns the bytes clocked in at the same time, as one
// full duplex message.
func (d *Device) Transfer(tx []byte, opts ...TransferOption) ([]byte, error) {
	seg := Segment{Tx: tx, Rx: make([]byte, len(tx))}
	if err := applyTransferOptions(&seg, opts); err != nil {
		return nil, err
	}
	if err := seg.validate(); err != nil {
		return nil, err
	}
	err := d.with(func() error {
		return d.message([]Segment{seg})
	})
	if err != nil {
		return nil, err
	}
	return seg.Rx, nil
}

// Message runs segs as one message without releasing chip select between
// them, unless a segment sets CSChange. Rx buffers are filled in place.
func (d *Device) Message(segs ...Segment) error {
	if len(segs) == 0 {
		return errors.Wrap(ErrInvalidLength, "empty message")
	}
	for i, s := range segs {
		if err := s.validate(); err != nil {
			return errors.WithMessagef(err, "segment %d", i)
		}
	}
	return d.with(func() error {
		return d.message(segs)
	})
}
