// Package devfs opens bus device nodes and translates errno values into the
// sentinel errors exported by package pureio.
package devfs

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/allbin/go-pureio"
)

// Open opens a device node for reading and writing.
func Open(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err == unix.ENXIO {
		// A device node without a driver behind it.
		return -1, errors.Wrapf(pureio.ErrDeviceNotFound, "open %s: %v", path, err)
	}
	if err != nil {
		return -1, Classify(err, "open %s", path)
	}
	return fd, nil
}

// Close closes fd.
func Close(fd int) error {
	return unix.Close(fd)
}

// Classify wraps err with the formatted context. Errno values that have a
// pureio sentinel are reported as that sentinel, with the errno kept in the
// message.
func Classify(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return errors.Wrapf(err, format, args...)
	}
	switch errno {
	case unix.ENOENT, unix.ENODEV:
		return errors.Wrapf(pureio.ErrDeviceNotFound, format+": %v", append(args, errno)...)
	case unix.EACCES, unix.EPERM:
		return errors.Wrapf(pureio.ErrPermissionDenied, format+": %v", append(args, errno)...)
	case unix.EBUSY:
		return errors.Wrapf(pureio.ErrDeviceBusy, format+": %v", append(args, errno)...)
	default:
		return errors.Wrapf(errno, format, args...)
	}
}
