//go:build !(ppc || ppc64 || ppc64le || mips || mipsle || mips64 || mips64le)

package spi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestRequestCodes(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"SPI_IOC_RD_MODE", rdMode, 0x80016B01},
		{"SPI_IOC_WR_MODE", wrMode, 0x40016B01},
		{"SPI_IOC_RD_BITS_PER_WORD", rdBitsPerWord, 0x80016B03},
		{"SPI_IOC_WR_BITS_PER_WORD", wrBitsPerWord, 0x40016B03},
		{"SPI_IOC_RD_MAX_SPEED_HZ", rdMaxSpeedHz, 0x80046B04},
		{"SPI_IOC_WR_MAX_SPEED_HZ", wrMaxSpeedHz, 0x40046B04},
		{"SPI_IOC_RD_MODE32", rdMode32, 0x80046B05},
		{"SPI_IOC_WR_MODE32", wrMode32, 0x40046B05},
		{"SPI_IOC_MESSAGE(1)", messageRequest(1), 0x40206B00},
		{"SPI_IOC_MESSAGE(3)", messageRequest(3), 0x40606B00},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %#x, want %#x", tt.name, tt.got, tt.want)
		}
	}
}

func TestTransferLayout(t *testing.T) {
	var x iocTransfer
	assert.Equal(t, uintptr(32), unsafe.Sizeof(x), "spi_ioc_transfer")
	assert.Equal(t, uintptr(16), unsafe.Offsetof(x.len))
	assert.Equal(t, uintptr(20), unsafe.Offsetof(x.speedHz))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(x.delayUsecs))
	assert.Equal(t, uintptr(26), unsafe.Offsetof(x.bitsPerWord))
	assert.Equal(t, uintptr(27), unsafe.Offsetof(x.csChange))
	assert.Equal(t, uintptr(30), unsafe.Offsetof(x.wordDelayUsecs))
}
