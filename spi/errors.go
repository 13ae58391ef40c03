package spi

import "errors"

var (
	ErrDeviceClosed  = errors.New("spi device is not open")
	ErrInvalidConfig = errors.New("invalid spi configuration")
	ErrInvalidLength = errors.New("invalid transfer length")
	ErrInvalidDelay  = errors.New("delay out of range")
)
