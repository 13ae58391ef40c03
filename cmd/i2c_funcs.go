/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allbin/go-pureio/internal/tui/styles"
	"github.com/allbin/go-pureio/smbus"
)

// i2cFuncsCmd represents the i2c funcs command
var i2cFuncsCmd = &cobra.Command{
	Use:   "funcs",
	Short: "Show what an I2C adapter supports",
	Long: `Query the adapter functionality mask (I2C_FUNCS) and list which
transactions the adapter driver implements.

Examples:
  pureio i2c funcs --bus 1`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bus := mustOpenBus()
		defer bus.Close()

		funcs, err := bus.Funcs()
		exitClosing(bus, "reading functionality", err)

		fmt.Printf("Functionality of %s (0x%08x):\n\n", bus.Path(), uint32(funcs))
		for _, line := range featureLines(funcs, true) {
			fmt.Println(line)
		}
	},
}

func init() {
	i2cCmd.AddCommand(i2cFuncsCmd)
}

func featureLines(funcs smbus.Functionality, styled bool) []string {
	var lines []string
	for _, f := range funcs.Features() {
		answer := "no"
		if f.Supported {
			answer = "yes"
		}
		if styled {
			answer = styles.FlagStyle(f.Supported).Render(answer)
		}
		lines = append(lines, fmt.Sprintf("  %-28s %s", f.Name, answer))
	}
	return lines
}
