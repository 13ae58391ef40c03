/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	pureio "github.com/allbin/go-pureio"
	"github.com/allbin/go-pureio/internal/tui/styles"
	"github.com/allbin/go-pureio/spi"
)

// spiInfoCmd represents the spi info command
var spiInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display the settings of a spidev device",
	Long: `Display the current mode, clock rate and word size of a spidev device,
and the kernel driver sysfs reports for it.

Examples:
  pureio spi info
  pureio spi info --bus 1 --chip 2`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dev := mustOpenDevice()
		defer dev.Close()

		mode, err := dev.Mode32()
		exitClosing(dev, "reading mode", err)
		speed, err := dev.MaxSpeedHz()
		exitClosing(dev, "reading speed", err)
		bits, err := dev.BitsPerWord()
		exitClosing(dev, "reading bits per word", err)

		fmt.Printf("Device Information: %s\n\n", dev.Path())
		if info, err := pureio.GetBusInfo(dev.Path()); err == nil && info.Driver != "" {
			fmt.Printf("  Driver:        %s\n", info.Driver)
		}
		fmt.Printf("  Mode:          %s (0x%02x)\n", mode, uint32(mode))
		fmt.Printf("  Max speed:     %s\n", formatHz(speed))
		// 0 means the kernel default of 8
		if bits == 0 {
			bits = 8
		}
		fmt.Printf("  Bits per word: %d\n", bits)

		fmt.Println("\nMode Flags:")
		for _, line := range modeFlagLines(mode, true) {
			fmt.Println(line)
		}
	},
}

func init() {
	spiCmd.AddCommand(spiInfoCmd)
}

var modeFlags = []struct {
	name string
	bit  spi.Mode
}{
	{"cpha", spi.CPHA},
	{"cpol", spi.CPOL},
	{"cs-high", spi.CSHigh},
	{"lsb-first", spi.LSBFirst},
	{"3wire", spi.ThreeWire},
	{"loop", spi.Loop},
	{"no-cs", spi.NoCS},
	{"ready", spi.Ready},
	{"tx-dual", spi.TxDual},
	{"tx-quad", spi.TxQuad},
	{"rx-dual", spi.RxDual},
	{"rx-quad", spi.RxQuad},
}

func modeFlagLines(mode spi.Mode, styled bool) []string {
	lines := make([]string, 0, len(modeFlags))
	for _, f := range modeFlags {
		state := formatSignalState(mode.Has(f.bit))
		if styled {
			state = styles.FlagStyle(mode.Has(f.bit)).Render(state)
		}
		lines = append(lines, fmt.Sprintf("  %-10s %s", f.name, state))
	}
	return lines
}

func formatHz(hz uint32) string {
	switch {
	case hz >= 1_000_000 && hz%1000 == 0:
		return fmt.Sprintf("%g MHz", float64(hz)/1e6)
	case hz >= 1000 && hz%100 == 0:
		return fmt.Sprintf("%g kHz", float64(hz)/1e3)
	default:
		return fmt.Sprintf("%d Hz", hz)
	}
}
