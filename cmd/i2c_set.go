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

// i2cSetCmd represents the i2c set command
var i2cSetCmd = &cobra.Command{
	Use:   "set <address> [register] [value...]",
	Short: "Write to an I2C device",
	Long: `Write to a device. The --mode flag selects the transaction and the
arguments it takes:

  q  quick write                 set <address>
  c  send byte                   set <address> <value>
  b  byte data (default)         set <address> <register> <value>
  w  word data, little endian    set <address> <register> <value>
  s  SMBus block data            set <address> <register> <hex bytes...>
  i  I2C block data              set <address> <register> <hex bytes...>
  p  process call, prints reply  set <address> <register> <value>

Examples:
  pureio i2c set 0x20 0x00 0xff
  pureio i2c set 0x48 0x01 0x6080 --mode w
  pureio i2c set 0x50 0x00 de ad be ef --mode i`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mode, _ := cmd.Flags().GetString("mode")

		addr, opts := argsAddress(args)
		bus := mustOpenBus(opts...)
		defer bus.Close()

		out, err := i2cSet(bus, addr, args[1:], mode)
		exitClosing(bus, "writing device", err)
		fmt.Printf("%s %s\n", styles.SuccessStyle.Render("✓"), out)
	},
}

func init() {
	i2cCmd.AddCommand(i2cSetCmd)

	i2cSetCmd.Flags().StringP("mode", "m", "b", "Transaction: q, c, b, w, s, i, p")
}

// i2cWriter is the part of *smbus.Bus the set command uses
type i2cWriter interface {
	WriteQuick(addr uint16) error
	SendByte(addr uint16, value byte) error
	WriteByteData(addr uint16, cmd, value byte) error
	WriteWordData(addr uint16, cmd byte, value uint16) error
	WriteBlockData(addr uint16, cmd byte, data []byte) error
	WriteI2CBlockData(addr uint16, cmd byte, data []byte) error
	ProcessCall(addr uint16, cmd byte, value uint16) (uint16, error)
}

var _ i2cWriter = (*smbus.Bus)(nil)

func wantArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("expected %s", usage)
	}
	return nil
}

func i2cSet(bus i2cWriter, addr uint16, args []string, mode string) (string, error) {
	switch mode {
	case "q":
		if err := wantArgs(args, 0, "no arguments after the address"); err != nil {
			return "", err
		}
		if err := bus.WriteQuick(addr); err != nil {
			return "", err
		}
		return fmt.Sprintf("quick write to 0x%02x", addr), nil

	case "c":
		if err := wantArgs(args, 1, "<value>"); err != nil {
			return "", err
		}
		v, err := parseByte(args[0])
		if err != nil {
			return "", err
		}
		if err := bus.SendByte(addr, v); err != nil {
			return "", err
		}
		return fmt.Sprintf("sent 0x%02x to 0x%02x", v, addr), nil
	}

	if len(args) < 2 {
		return "", fmt.Errorf("expected <register> <value>")
	}
	reg, err := parseByte(args[0])
	if err != nil {
		return "", err
	}

	switch mode {
	case "b":
		if err := wantArgs(args, 2, "<register> <value>"); err != nil {
			return "", err
		}
		v, err := parseByte(args[1])
		if err != nil {
			return "", err
		}
		if err := bus.WriteByteData(addr, reg, v); err != nil {
			return "", err
		}
		return fmt.Sprintf("wrote 0x%02x to 0x%02x[0x%02x]", v, addr, reg), nil

	case "w", "p":
		if err := wantArgs(args, 2, "<register> <value>"); err != nil {
			return "", err
		}
		v, err := parseWord(args[1])
		if err != nil {
			return "", err
		}
		if mode == "p" {
			reply, err := bus.ProcessCall(addr, reg, v)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("0x%02x[0x%02x] answered 0x%04x", addr, reg, reply), nil
		}
		if err := bus.WriteWordData(addr, reg, v); err != nil {
			return "", err
		}
		return fmt.Sprintf("wrote 0x%04x to 0x%02x[0x%02x]", v, addr, reg), nil

	case "s", "i":
		data, err := parseHexInput(strings.Join(args[1:], " "))
		if err != nil {
			return "", err
		}
		if mode == "s" {
			err = bus.WriteBlockData(addr, reg, data)
		} else {
			err = bus.WriteI2CBlockData(addr, reg, data)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("wrote %d bytes to 0x%02x[0x%02x]", len(data), addr, reg), nil

	default:
		return "", fmt.Errorf("invalid mode %q (valid: q, c, b, w, s, i, p)", mode)
	}
}
