package spi

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

const consumer = "pureio-spi"

// csLine is the part of a GPIO line request used for chip select.
type csLine interface {
	SetValue(value int) error
	Close() error
}

var requestLine = func(chip string, offset int, value int) (csLine, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(value),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, err
	}
	return l, nil
}

// chipSelect drives a GPIO line as the device's chip select.
type chipSelect struct {
	line     csLine
	active   int
	inactive int
}

func newChipSelect(cfg ChipSelectLine, activeHigh bool) (*chipSelect, error) {
	cs := &chipSelect{active: 0, inactive: 1}
	if activeHigh {
		cs.active, cs.inactive = 1, 0
	}
	line, err := requestLine(cfg.Chip, cfg.Offset, cs.inactive)
	if err != nil {
		return nil, errors.Wrapf(err, "request chip select %s:%d", cfg.Chip, cfg.Offset)
	}
	cs.line = line
	return cs, nil
}

func (cs *chipSelect) setActiveHigh(activeHigh bool) error {
	active, inactive := 0, 1
	if activeHigh {
		active, inactive = 1, 0
	}
	if active == cs.active {
		return nil
	}
	cs.active, cs.inactive = active, inactive
	return cs.deassert()
}

func (cs *chipSelect) assert() error {
	return errors.Wrap(cs.line.SetValue(cs.active), "assert chip select")
}

func (cs *chipSelect) deassert() error {
	return errors.Wrap(cs.line.SetValue(cs.inactive), "release chip select")
}

func (cs *chipSelect) close() error {
	return cs.line.Close()
}
