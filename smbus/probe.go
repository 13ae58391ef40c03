package smbus

import (
	"github.com/pkg/errors"

	pureio "github.com/allbin/go-pureio"
)

// ProbeResult is the outcome of probing one address.
type ProbeResult int

const (
	// Absent means nothing acknowledged the address.
	Absent ProbeResult = iota
	// Present means a device acknowledged the address.
	Present
	// Busy means a kernel driver owns the address, so it was not probed.
	Busy
)

func (r ProbeResult) String() string {
	switch r {
	case Present:
		return "present"
	case Busy:
		return "busy"
	default:
		return "absent"
	}
}

// Probe checks whether a device answers at addr the way i2cdetect does: a
// quick write, or a receive byte for the ranges where a quick write could
// corrupt EEPROMs or lock up some chips.
func (b *Bus) Probe(addr uint16) (ProbeResult, error) {
	result := Absent
	err := b.withAddr(addr, func(c conn) error {
		if err := b.selectDevice(c, addr); err != nil {
			if errors.Is(err, pureio.ErrDeviceBusy) {
				result = Busy
				return nil
			}
			return err
		}
		var perr error
		if useReadProbe(addr) {
			var data smbusData
			perr = c.smbus(smbusRead, 0, smbusByte, &data)
		} else {
			perr = c.smbus(smbusWrite, 0, smbusQuick, nil)
		}
		if perr == nil {
			result = Present
		}
		b.config.Logger.Trace().Uint16("addr", addr).Stringer("result", result).AnErr("probe", perr).Msg("probe")
		return nil
	})
	if err != nil {
		return Absent, err
	}
	return result, nil
}

func useReadProbe(addr uint16) bool {
	return (addr >= 0x30 && addr <= 0x37) || (addr >= 0x50 && addr <= 0x5f)
}

// Scan probes every address from first to last inclusive. last is clamped to
// the highest address of the bus addressing mode.
func (b *Bus) Scan(first, last uint16) (map[uint16]ProbeResult, error) {
	if limit := b.maxAddr(); last > limit {
		last = limit
	}
	if first > last {
		return nil, errors.Wrapf(ErrInvalidAddress, "range 0x%02x-0x%02x", first, last)
	}
	results := make(map[uint16]ProbeResult, int(last-first)+1)
	for addr := first; addr <= last; addr++ {
		r, err := b.Probe(addr)
		if err != nil {
			return nil, err
		}
		results[addr] = r
		if addr == last {
			break
		}
	}
	return results, nil
}
