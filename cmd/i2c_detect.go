/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allbin/go-pureio/internal/tui/styles"
	"github.com/allbin/go-pureio/smbus"
)

// i2cDetectCmd represents the i2c detect command
var i2cDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Scan an I2C bus for devices",
	Long: `Probe every address in a range and draw the result as a grid.

  --  no answer
  UU  address claimed by a kernel driver
  48  a device answered at 0x48

Addresses 0x30-0x37 and 0x50-0x5f are probed with a read, all others with a
quick write, the same way i2cdetect does. Writes to some chips can still
confuse them, so only scan buses you know.

Examples:
  pureio i2c detect
  pureio i2c detect --bus 0 --first 0x08 --last 0x77`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		firstArg, _ := cmd.Flags().GetString("first")
		lastArg, _ := cmd.Flags().GetString("last")
		first, err := parseAddress(firstArg)
		exitOnError("parsing --first", err)
		last, err := parseAddress(lastArg)
		exitOnError("parsing --last", err)
		exitOnError("checking range", checkDetectRange(first, last))

		bus := mustOpenBus()
		defer bus.Close()

		results, err := bus.Scan(first, last)
		exitClosing(bus, "scanning bus", err)

		for _, line := range detectGrid(results, first, last, true) {
			fmt.Println(line)
		}
	},
}

func init() {
	i2cCmd.AddCommand(i2cDetectCmd)

	i2cDetectCmd.Flags().String("first", "0x03", "First address to probe")
	i2cDetectCmd.Flags().String("last", "0x77", "Last address to probe")
}

// checkDetectRange rejects ranges a 7-bit scan cannot cover.
func checkDetectRange(first, last uint16) error {
	switch {
	case last > 0x7f:
		return fmt.Errorf("--last 0x%02x is above 0x7f, the highest 7-bit address", last)
	case first > last:
		return fmt.Errorf("--first 0x%02x is after --last 0x%02x", first, last)
	}
	return nil
}

// detectGrid lays the scan results out as i2cdetect does, 16 addresses a row.
func detectGrid(results map[uint16]smbus.ProbeResult, first, last uint16, styled bool) []string {
	render := func(r smbus.ProbeResult, s string) string {
		if !styled {
			return s
		}
		return styles.ProbeStyle(r).Render(s)
	}

	var header strings.Builder
	header.WriteString("    ")
	for col := 0; col < 16; col++ {
		fmt.Fprintf(&header, " %2x", col)
	}
	lines := []string{header.String()}

	for row := first &^ 0xf; row <= last; row += 16 {
		var line strings.Builder
		fmt.Fprintf(&line, "%02x:", row)
		for col := uint16(0); col < 16; col++ {
			addr := row + col
			line.WriteByte(' ')
			if addr < first || addr > last {
				line.WriteString("  ")
				continue
			}
			switch r := results[addr]; r {
			case smbus.Present:
				line.WriteString(render(r, fmt.Sprintf("%02x", addr)))
			case smbus.Busy:
				line.WriteString(render(r, "UU"))
			default:
				line.WriteString(render(r, "--"))
			}
		}
		lines = append(lines, line.String())
	}
	return lines
}
