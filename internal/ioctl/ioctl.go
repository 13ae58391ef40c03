// Package ioctl encodes Linux ioctl request numbers and issues ioctl calls on
// raw file descriptors.
package ioctl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	nrBits   = 8
	typeBits = 8

	nrShift   = 0
	typeShift = nrShift + nrBits
	sizeShift = typeShift + typeBits
	dirShift  = sizeShift + sizeBits

	sizeMask = 1<<sizeBits - 1
)

// IOC returns the request number for the given direction, type, number and
// argument size, see include/uapi/asm-generic/ioctl.h.
func IOC(dir, typ, nr, size uintptr) uintptr {
	return (dir << dirShift) | (typ << typeShift) | (nr << nrShift) | ((size & sizeMask) << sizeShift)
}

// IO encodes a request that carries no argument.
func IO(typ, nr uintptr) uintptr {
	return IOC(None, typ, nr, 0)
}

// IOR encodes a request that reads size bytes from the driver.
func IOR(typ, nr, size uintptr) uintptr {
	return IOC(Read, typ, nr, size)
}

// IOW encodes a request that writes size bytes to the driver.
func IOW(typ, nr, size uintptr) uintptr {
	return IOC(Write, typ, nr, size)
}

// IOWR encodes a request that both writes and reads size bytes.
func IOWR(typ, nr, size uintptr) uintptr {
	return IOC(Read|Write, typ, nr, size)
}

// Ioctl performs an ioctl with a value argument.
func Ioctl(fd int, req, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, arg); errno != 0 {
		return errno
	}
	return nil
}

// IoctlPtr performs an ioctl whose argument points at a structure the caller
// keeps alive for the duration of the call.
func IoctlPtr(fd int, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}
