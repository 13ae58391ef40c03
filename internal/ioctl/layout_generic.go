//go:build !(ppc || ppc64 || ppc64le || mips || mipsle || mips64 || mips64le)

package ioctl

const (
	sizeBits = 14
	dirBits  = 2

	// None, Write and Read are the _IOC direction bits.
	None  = 0
	Write = 1
	Read  = 2
)
