package pureio

import "errors"

// Errors shared by the smbus and spi packages.
var (
	ErrDeviceNotFound   = errors.New("bus device not found")
	ErrPermissionDenied = errors.New("permission denied accessing bus device")
	ErrDeviceBusy       = errors.New("bus device or address in use")
	ErrNotCharDevice    = errors.New("path is not a character device")
)
