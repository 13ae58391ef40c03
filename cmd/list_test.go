package cmd

import (
	"errors"
	"strings"
	"testing"

	pureio "github.com/allbin/go-pureio"
)

func TestRenderTable(t *testing.T) {
	infos := map[string]*pureio.BusInfo{
		"/dev/i2c-1":     {Name: "i2c-1", Path: "/dev/i2c-1", Kind: pureio.KindI2C, Bus: 1, Adapter: "bcm2835 (i2c@7e804000)"},
		"/dev/spidev0.1": {Name: "spidev0.1", Path: "/dev/spidev0.1", Kind: pureio.KindSPI, Bus: 0, Chip: 1},
	}
	lookup := func(path string) (*pureio.BusInfo, error) {
		if info, ok := infos[path]; ok {
			return info, nil
		}
		return nil, errors.New("gone")
	}

	lines := renderTable([]string{"/dev/i2c-1", "/dev/spidev0.1", "/dev/i2c-9"}, lookup)
	if len(lines) != 4 {
		t.Fatalf("renderTable() returned %d lines, want 4", len(lines))
	}

	checks := []struct {
		line int
		want []string
	}{
		{0, []string{"Device", "Bus", "Description"}},
		{1, []string{"i2c-1", "bcm2835 (i2c@7e804000)"}},
		{2, []string{"spidev0.1", "0.1", "spidev"}},
		{3, []string{"/dev/i2c-9", "Error: gone"}},
	}
	for _, c := range checks {
		for _, want := range c.want {
			if !strings.Contains(lines[c.line], want) {
				t.Errorf("line %d = %q, missing %q", c.line, lines[c.line], want)
			}
		}
	}
}

func TestDescribeBus(t *testing.T) {
	tests := []struct {
		info *pureio.BusInfo
		want string
	}{
		{&pureio.BusInfo{Kind: pureio.KindI2C, Adapter: "i915 gmbus dpb", Driver: "i915"}, "i915 gmbus dpb (i915)"},
		{&pureio.BusInfo{Kind: pureio.KindI2C}, "I2C adapter"},
		{&pureio.BusInfo{Kind: pureio.KindSPI, Driver: "spi-bcm2835"}, "spi-bcm2835"},
		{&pureio.BusInfo{Kind: pureio.KindSPI}, "spidev"},
	}
	for _, tt := range tests {
		if got := describeBus(tt.info); got != tt.want {
			t.Errorf("describeBus(%+v) = %q, want %q", tt.info, got, tt.want)
		}
	}
}
