package spi

import (
	"time"
	"unsafe"

	"github.com/pkg/errors"
)

// Segment is one transfer of a message. Tx, Rx or both may be set; when both
// are set they must have the same length. Zero settings use the device
// defaults.
type Segment struct {
	Tx []byte
	Rx []byte

	SpeedHz     uint32
	BitsPerWord uint8
	// DelayUsecs is the pause after the segment before chip select changes
	// or the next segment starts.
	DelayUsecs uint16
	// CSChange deselects the device after this segment.
	CSChange bool
	// TxNbits and RxNbits select dual or quad transfers; zero means single.
	TxNbits uint8
	RxNbits uint8
}

// Len returns the number of bytes the segment clocks.
func (s Segment) Len() int {
	if len(s.Tx) > 0 {
		return len(s.Tx)
	}
	return len(s.Rx)
}

func (s Segment) validate() error {
	if s.Len() == 0 {
		return errors.Wrap(ErrInvalidLength, "empty segment")
	}
	if len(s.Tx) > 0 && len(s.Rx) > 0 && len(s.Tx) != len(s.Rx) {
		return errors.Wrapf(ErrInvalidLength, "tx of %d bytes with rx of %d bytes", len(s.Tx), len(s.Rx))
	}
	return nil
}

func (s Segment) ioc() iocTransfer {
	t := iocTransfer{
		len:         uint32(s.Len()),
		speedHz:     s.SpeedHz,
		delayUsecs:  s.DelayUsecs,
		bitsPerWord: s.BitsPerWord,
		txNbits:     s.TxNbits,
		rxNbits:     s.RxNbits,
	}
	if len(s.Tx) > 0 {
		t.txBuf = uint64(uintptr(unsafe.Pointer(&s.Tx[0])))
	}
	if len(s.Rx) > 0 {
		t.rxBuf = uint64(uintptr(unsafe.Pointer(&s.Rx[0])))
	}
	if s.CSChange {
		t.csChange = 1
	}
	return t
}

// TransferOption overrides device defaults for one call.
type TransferOption func(*Segment) error

// WithSpeedHz overrides the clock rate.
func WithSpeedHz(hz uint32) TransferOption {
	return func(s *Segment) error {
		s.SpeedHz = hz
		return nil
	}
}

// WithWordBits overrides the word size.
func WithWordBits(bits uint8) TransferOption {
	return func(s *Segment) error {
		if bits > 32 {
			return errors.Wrapf(ErrInvalidConfig, "%d bits per word", bits)
		}
		s.BitsPerWord = bits
		return nil
	}
}

// WithDelay waits d after the last bit before releasing chip select. The
// kernel counts in whole microseconds up to 65535.
func WithDelay(d time.Duration) TransferOption {
	return func(s *Segment) error {
		us := d / time.Microsecond
		if us < 0 || us > 0xffff {
			return errors.Wrapf(ErrInvalidDelay, "%v", d)
		}
		s.DelayUsecs = uint16(us)
		return nil
	}
}

// WithCSChange toggles chip select after the transfer.
func WithCSChange() TransferOption {
	return func(s *Segment) error {
		s.CSChange = true
		return nil
	}
}

func applyTransferOptions(s *Segment, opts []TransferOption) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}
