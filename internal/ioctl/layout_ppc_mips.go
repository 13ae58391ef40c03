//go:build ppc || ppc64 || ppc64le || mips || mipsle || mips64 || mips64le

package ioctl

// PowerPC and MIPS reserve three direction bits and only 13 size bits.
const (
	sizeBits = 13
	dirBits  = 3

	None  = 1
	Read  = 2
	Write = 4
)
