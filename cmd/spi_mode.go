/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allbin/go-pureio/internal/tui/styles"
	"github.com/allbin/go-pureio/spi"
)

// spiModeCmd represents the spi mode command
var spiModeCmd = &cobra.Command{
	Use:   "mode [mode | flag=state...]",
	Short: "Show or change the SPI mode",
	Long: `Without arguments, print the current mode. A bare mode replaces the whole
mode word, while flag=state arguments change single flags and keep the rest.

Modes: 0-3, optionally followed by flags, e.g. "3,cs-high"
Flags: cpha, cpol, cs-high, lsb-first, 3wire, loop, no-cs, ready
States: high, low, on, off, true, false, 1, 0

Examples:
  pureio spi mode
  pureio spi mode 3
  pureio spi mode 0,lsb-first
  pureio spi mode cs-high=on loop=off`,
	Run: func(cmd *cobra.Command, args []string) {
		dev := mustOpenDevice()
		defer dev.Close()

		if len(args) > 0 {
			exitClosing(dev, "setting mode", applyMode(dev, args))
		}

		mode, err := dev.Mode32()
		exitClosing(dev, "reading mode", err)
		fmt.Printf("%s: %s\n", dev.Path(), styles.ValueStyle.Render(mode.String()))
	},
}

func init() {
	spiCmd.AddCommand(spiModeCmd)
}

// modeSetter is the part of *spi.Device the mode command changes
type modeSetter interface {
	SetMode(m spi.Mode) error
	SetMode32(m spi.Mode) error
	SetPhase(on bool) error
	SetPolarity(on bool) error
	SetCSHigh(on bool) error
	SetLSBFirst(on bool) error
	SetThreeWire(on bool) error
	SetLoop(on bool) error
	SetNoCS(on bool) error
	SetReady(on bool) error
}

var _ modeSetter = (*spi.Device)(nil)

func flagSetter(dev modeSetter, name string) (func(bool) error, bool) {
	switch name {
	case "cpha":
		return dev.SetPhase, true
	case "cpol":
		return dev.SetPolarity, true
	case "cs-high":
		return dev.SetCSHigh, true
	case "lsb-first":
		return dev.SetLSBFirst, true
	case "3wire":
		return dev.SetThreeWire, true
	case "loop":
		return dev.SetLoop, true
	case "no-cs":
		return dev.SetNoCS, true
	case "ready":
		return dev.SetReady, true
	}
	return nil, false
}

func applyMode(dev modeSetter, args []string) error {
	if len(args) == 1 && !strings.Contains(args[0], "=") {
		mode, ok := spi.ParseMode(args[0])
		if !ok {
			return fmt.Errorf("invalid mode %q", args[0])
		}
		if mode > 0xff {
			return dev.SetMode32(mode)
		}
		return dev.SetMode(mode)
	}

	for _, arg := range args {
		name, stateArg, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid argument %q (expected flag=state)", arg)
		}
		set, ok := flagSetter(dev, strings.ToLower(name))
		if !ok {
			return fmt.Errorf("unknown flag %q", name)
		}
		state, err := parseSignalState(stateArg)
		if err != nil {
			return err
		}
		if err := set(state); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
