/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allbin/go-pureio/smbus"
)

// i2cCmd represents the i2c command
var i2cCmd = &cobra.Command{
	Use:   "i2c",
	Short: "I2C and SMBus tools",
	Long: `Scan, read, write and watch devices on an I2C adapter.

The adapter is chosen with --bus (or i2c.bus in the config file). Addresses
claimed by a kernel driver are refused unless --force is given.`,
}

func init() {
	rootCmd.AddCommand(i2cCmd)

	i2cCmd.PersistentFlags().IntP("bus", "b", 1, "I2C bus number (/dev/i2c-N)")
	i2cCmd.PersistentFlags().Bool("force", false, "Access addresses claimed by a kernel driver")
	i2cCmd.PersistentFlags().Bool("pec", false, "Enable SMBus packet error checking")
	_ = viper.BindPFlag("i2c.bus", i2cCmd.PersistentFlags().Lookup("bus"))
	_ = viper.BindPFlag("i2c.force", i2cCmd.PersistentFlags().Lookup("force"))
	_ = viper.BindPFlag("i2c.pec", i2cCmd.PersistentFlags().Lookup("pec"))
}

func i2cOptions() []smbus.Option {
	opts := []smbus.Option{smbus.WithLogger(logger)}
	if viper.GetBool("i2c.force") {
		opts = append(opts, smbus.WithForce())
	}
	if viper.GetBool("i2c.pec") {
		opts = append(opts, smbus.WithPEC())
	}
	return opts
}

// mustOpenBus opens the configured adapter or exits.
func mustOpenBus(extra ...smbus.Option) *smbus.Bus {
	bus := viper.GetInt("i2c.bus")
	b, err := smbus.Open(bus, append(i2cOptions(), extra...)...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", smbus.DevicePath(bus), err)
		os.Exit(1)
	}
	return b
}

// argsAddress parses the address in args[0], switching the bus to
// 10-bit addressing above 0x7f.
func argsAddress(args []string) (uint16, []smbus.Option) {
	addr, err := parseAddress(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if addr > 0x7f {
		return addr, []smbus.Option{smbus.WithTenBit()}
	}
	return addr, nil
}

var osExit = os.Exit

func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
		osExit(1)
	}
}

// exitClosing is exitOnError for commands holding an open device: c is closed
// first, since os.Exit skips deferred calls.
func exitClosing(c io.Closer, what string, err error) {
	if err != nil {
		c.Close()
		exitOnError(what, err)
	}
}
