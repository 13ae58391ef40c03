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

// i2cGetCmd represents the i2c get command
var i2cGetCmd = &cobra.Command{
	Use:   "get <address> [register]",
	Short: "Read from an I2C device",
	Long: `Read a byte, word or block from a device.

Without a register a single byte is received from the device. The --mode
flag selects the transaction:

  b  byte data (default)
  w  word data, little endian
  s  SMBus block data, length sent by the device
  i  I2C block data, --length bytes

Examples:
  pureio i2c get 0x48
  pureio i2c get 0x48 0x00 --mode w
  pureio i2c get 0x50 0x00 --mode i --length 16`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		mode, _ := cmd.Flags().GetString("mode")
		length, _ := cmd.Flags().GetInt("length")

		addr, opts := argsAddress(args)
		bus := mustOpenBus(opts...)
		defer bus.Close()

		out, err := i2cGet(bus, addr, args[1:], mode, length)
		exitClosing(bus, "reading device", err)
		fmt.Println(out)
	},
}

func init() {
	i2cCmd.AddCommand(i2cGetCmd)

	i2cGetCmd.Flags().StringP("mode", "m", "b", "Transaction: b, w, s, i")
	i2cGetCmd.Flags().IntP("length", "l", smbus.BlockMax, "Number of bytes for I2C block reads")
}

// i2cReader is the part of *smbus.Bus the get command uses
type i2cReader interface {
	ReceiveByte(addr uint16) (byte, error)
	ReadByteData(addr uint16, cmd byte) (byte, error)
	ReadWordData(addr uint16, cmd byte) (uint16, error)
	ReadBlockData(addr uint16, cmd byte) ([]byte, error)
	ReadI2CBlockData(addr uint16, cmd byte, n int) ([]byte, error)
}

func i2cGet(bus i2cReader, addr uint16, regArgs []string, mode string, length int) (string, error) {
	if len(regArgs) == 0 {
		v, err := bus.ReceiveByte(addr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("0x%02x", v), nil
	}

	reg, err := parseByte(regArgs[0])
	if err != nil {
		return "", err
	}

	formatter := components.NewDataFormatter(true, true)
	formatter.SetStyled(false)

	switch mode {
	case "b":
		v, err := bus.ReadByteData(addr, reg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("0x%02x", v), nil
	case "w":
		v, err := bus.ReadWordData(addr, reg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("0x%04x", v), nil
	case "s":
		data, err := bus.ReadBlockData(addr, reg)
		if err != nil {
			return "", err
		}
		return formatter.FormatBytes(data), nil
	case "i":
		data, err := bus.ReadI2CBlockData(addr, reg, length)
		if err != nil {
			return "", err
		}
		return formatter.FormatBytes(data), nil
	default:
		return "", fmt.Errorf("invalid mode %q (valid: b, w, s, i)", mode)
	}
}

var _ i2cReader = (*smbus.Bus)(nil)
