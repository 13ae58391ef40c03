package smbus

import (
	"time"

	"github.com/rs/zerolog"
)

// Config holds the settings applied when a bus is opened.
type Config struct {
	// Force selects slave addresses with I2C_SLAVE_FORCE, taking the address
	// even when a kernel driver is bound to it.
	Force bool
	// TenBit switches the adapter to 10-bit addressing.
	TenBit bool
	// PEC enables SMBus packet error checking.
	PEC bool
	// Retries is the number of times the adapter retries on arbitration
	// loss; nil keeps the kernel default.
	Retries *int
	// Timeout is the adapter transfer timeout, in multiples of 10ms; zero
	// keeps the kernel default.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Option is a functional option for configuring a bus
type Option func(*Config) error

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Logger: zerolog.Nop(),
	}
}

// WithForce selects addresses even if a kernel driver already claims them.
// It is the equivalent of python smbus' dangerous=True.
func WithForce() Option {
	return func(c *Config) error {
		c.Force = true
		return nil
	}
}

// WithTenBit enables 10-bit slave addresses.
func WithTenBit() Option {
	return func(c *Config) error {
		c.TenBit = true
		return nil
	}
}

// WithPEC enables SMBus packet error checking.
func WithPEC() Option {
	return func(c *Config) error {
		c.PEC = true
		return nil
	}
}

// WithRetries sets the adapter retry count.
func WithRetries(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return ErrInvalidConfig
		}
		c.Retries = &n
		return nil
	}
}

// WithTimeout sets the adapter timeout. The kernel counts in jiffies of 10ms,
// so the duration must be a positive multiple of 10ms.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 || d%(10*time.Millisecond) != 0 {
			return ErrInvalidConfig
		}
		c.Timeout = d
		return nil
	}
}

// WithLogger sets the logger used for bus diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}
