package spi

import (
	"github.com/rs/zerolog"
)

// Config holds the settings applied when a device is opened. Nil and unset
// fields leave the driver's current value alone.
type Config struct {
	MaxSpeedHz  *uint32
	BitsPerWord *uint8
	// Mode replaces the whole mode word before Set and Clear are applied.
	Mode *Mode
	// Set and Clear are mode bits switched on or off individually.
	Set   Mode
	Clear Mode
	// ChipSelect drives chip select from a GPIO line instead of the
	// controller.
	ChipSelect *ChipSelectLine
	Logger     zerolog.Logger
}

// ChipSelectLine names a GPIO line by chip (name or path) and offset.
type ChipSelectLine struct {
	Chip   string
	Offset int
}

// Option is a functional option for configuring a device
type Option func(*Config) error

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Logger: zerolog.Nop(),
	}
}

// WithMaxSpeedHz sets the default clock rate.
func WithMaxSpeedHz(hz uint32) Option {
	return func(c *Config) error {
		if hz == 0 {
			return ErrInvalidConfig
		}
		c.MaxSpeedHz = &hz
		return nil
	}
}

// WithBitsPerWord sets the word size. Zero means 8 bits.
func WithBitsPerWord(bits uint8) Option {
	return func(c *Config) error {
		if bits > 32 {
			return ErrInvalidConfig
		}
		c.BitsPerWord = &bits
		return nil
	}
}

// WithMode sets the whole mode word.
func WithMode(m Mode) Option {
	return func(c *Config) error {
		c.Mode = &m
		return nil
	}
}

func withFlag(flag Mode, on bool) Option {
	return func(c *Config) error {
		if on {
			c.Set |= flag
			c.Clear &^= flag
		} else {
			c.Clear |= flag
			c.Set &^= flag
		}
		return nil
	}
}

// WithPhase samples on the trailing clock edge when true.
func WithPhase(on bool) Option { return withFlag(CPHA, on) }

// WithPolarity idles the clock high when true.
func WithPolarity(on bool) Option { return withFlag(CPOL, on) }

// WithCSHigh makes chip select active high.
func WithCSHigh(on bool) Option { return withFlag(CSHigh, on) }

// WithLSBFirst sends the least significant bit first.
func WithLSBFirst(on bool) Option { return withFlag(LSBFirst, on) }

// WithThreeWire shares one data line for both directions.
func WithThreeWire(on bool) Option { return withFlag(ThreeWire, on) }

// WithLoop enables controller loopback.
func WithLoop(on bool) Option { return withFlag(Loop, on) }

// WithNoCS disables the controller's chip select.
func WithNoCS(on bool) Option { return withFlag(NoCS, on) }

// WithReady lets the slave pull low to pause.
func WithReady(on bool) Option { return withFlag(Ready, on) }

// WithChipSelectLine asserts chip select on a GPIO line around every message.
// The line's active level follows the CSHigh mode bit.
func WithChipSelectLine(chip string, offset int) Option {
	return func(c *Config) error {
		if chip == "" || offset < 0 {
			return ErrInvalidConfig
		}
		c.ChipSelect = &ChipSelectLine{Chip: chip, Offset: offset}
		return nil
	}
}

// WithLogger sets the logger used for device diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}
