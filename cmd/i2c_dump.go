/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allbin/go-pureio/internal/tui/components"
	"github.com/allbin/go-pureio/smbus"
)

// i2cDumpCmd represents the i2c dump command
var i2cDumpCmd = &cobra.Command{
	Use:   "dump <address>",
	Short: "Dump the registers of an I2C device",
	Long: `Read a register range and print it as a hex dump.

Registers are read one byte data transaction at a time, or in I2C block
reads of 32 bytes with --block, which is faster but needs a device that
auto-increments its register pointer.

Examples:
  pureio i2c dump 0x50
  pureio i2c dump 0x68 --first 0x3b --last 0x48
  pureio i2c dump 0x50 --block --no-ascii`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		firstArg, _ := cmd.Flags().GetString("first")
		lastArg, _ := cmd.Flags().GetString("last")
		block, _ := cmd.Flags().GetBool("block")
		noASCII, _ := cmd.Flags().GetBool("no-ascii")

		first, err := parseByte(firstArg)
		exitOnError("parsing --first", err)
		last, err := parseByte(lastArg)
		exitOnError("parsing --last", err)
		if first > last {
			exitOnError("parsing range", fmt.Errorf("--first 0x%02x is after --last 0x%02x", first, last))
		}

		addr, opts := argsAddress(args)
		bus := mustOpenBus(opts...)
		defer bus.Close()

		data, err := readRegisters(bus, addr, first, last, block)
		exitClosing(bus, "reading registers", err)

		formatter := components.NewDataFormatter(true, !noASCII)
		for _, line := range formatter.HexDump(int(first), data, nil) {
			fmt.Println(line)
		}
	},
}

func init() {
	i2cCmd.AddCommand(i2cDumpCmd)

	i2cDumpCmd.Flags().String("first", "0x00", "First register")
	i2cDumpCmd.Flags().String("last", "0xff", "Last register")
	i2cDumpCmd.Flags().Bool("block", false, "Read with 32 byte I2C block transactions")
	i2cDumpCmd.Flags().Bool("no-ascii", false, "Hide the ASCII column")
}

// registerBlockReader is the part of *smbus.Bus a dump needs
type registerBlockReader interface {
	ReadByteData(addr uint16, cmd byte) (byte, error)
	ReadI2CBlockData(addr uint16, cmd byte, n int) ([]byte, error)
}

// readRegisters reads registers first to last inclusive.
func readRegisters(bus registerBlockReader, addr uint16, first, last byte, block bool) ([]byte, error) {
	total := int(last) - int(first) + 1
	data := make([]byte, 0, total)
	for len(data) < total {
		reg := first + byte(len(data))
		if block {
			n := min(smbus.BlockMax, total-len(data))
			chunk, err := bus.ReadI2CBlockData(addr, reg, n)
			if err != nil {
				return nil, fmt.Errorf("register 0x%02x: %w", reg, err)
			}
			data = append(data, chunk...)
			continue
		}
		v, err := bus.ReadByteData(addr, reg)
		if err != nil {
			return nil, fmt.Errorf("register 0x%02x: %w", reg, err)
		}
		data = append(data, v)
	}
	return data, nil
}
