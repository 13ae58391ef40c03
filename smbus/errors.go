package smbus

import "errors"

var (
	ErrBusClosed       = errors.New("i2c bus is not open")
	ErrInvalidAddress  = errors.New("invalid i2c address")
	ErrInvalidLength   = errors.New("invalid transfer length")
	ErrInvalidConfig   = errors.New("invalid i2c configuration")
	ErrShortTransfer   = errors.New("short i2c transfer")
	ErrTooManyMessages = errors.New("too many messages in one transfer")
)
