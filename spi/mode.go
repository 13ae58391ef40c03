package spi

import (
	"strconv"
	"strings"
)

// Mode is the spidev mode word, see include/uapi/linux/spi/spi.h.
type Mode uint32

const (
	CPHA      Mode = 0x01
	CPOL      Mode = 0x02
	CSHigh    Mode = 0x04
	LSBFirst  Mode = 0x08
	ThreeWire Mode = 0x10
	Loop      Mode = 0x20
	NoCS      Mode = 0x40
	Ready     Mode = 0x80
	TxDual    Mode = 0x100
	TxQuad    Mode = 0x200
	RxDual    Mode = 0x400
	RxQuad    Mode = 0x800

	Mode0 Mode = 0
	Mode1 Mode = CPHA
	Mode2 Mode = CPOL
	Mode3 Mode = CPHA | CPOL
)

var modeNames = []struct {
	bit  Mode
	name string
}{
	{CSHigh, "cs-high"},
	{LSBFirst, "lsb-first"},
	{ThreeWire, "3wire"},
	{Loop, "loop"},
	{NoCS, "no-cs"},
	{Ready, "ready"},
	{TxDual, "tx-dual"},
	{TxQuad, "tx-quad"},
	{RxDual, "rx-dual"},
	{RxQuad, "rx-quad"},
}

// Has reports whether every bit of flag is set.
func (m Mode) Has(flag Mode) bool {
	return m&flag == flag
}

// ClockMode returns the SPI mode number 0-3 made of CPOL and CPHA.
func (m Mode) ClockMode() int {
	return int(m & (CPOL | CPHA))
}

// String formats the mode as "mode N" followed by any extra flags.
func (m Mode) String() string {
	parts := []string{"mode " + strconv.Itoa(m.ClockMode())}
	for _, n := range modeNames {
		if m.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ", ")
}

// ParseMode parses the flag names produced by String, plus the bare clock
// modes "0" to "3".
func ParseMode(s string) (Mode, bool) {
	var m Mode
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "":
			continue
		case "0", "mode 0", "mode0":
			m |= Mode0
			continue
		case "1", "mode 1", "mode1":
			m |= Mode1
			continue
		case "2", "mode 2", "mode2":
			m |= Mode2
			continue
		case "3", "mode 3", "mode3":
			m |= Mode3
			continue
		case "cpha":
			m |= CPHA
			continue
		case "cpol":
			m |= CPOL
			continue
		}
		found := false
		for _, n := range modeNames {
			if n.name == part {
				m |= n.bit
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return m, true
}
