/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allbin/go-pureio/spi"
)

// spiCmd represents the spi command
var spiCmd = &cobra.Command{
	Use:   "spi",
	Short: "SPI tools",
	Long: `Inspect, configure and exchange data with spidev devices.

The device is chosen with --bus and --chip (or spi.bus and spi.chip in the
config file), giving /dev/spidevB.C.`,
}

func init() {
	rootCmd.AddCommand(spiCmd)

	spiCmd.PersistentFlags().IntP("bus", "b", 0, "SPI bus number")
	spiCmd.PersistentFlags().IntP("chip", "c", 0, "Chip select number")
	spiCmd.PersistentFlags().StringP("speed", "s", "", "Clock rate, e.g. 500k or 8M (default: keep current)")
	spiCmd.PersistentFlags().String("cs-gpio", "", "Drive chip select from a GPIO line instead, as <chip>:<offset>")
	_ = viper.BindPFlag("spi.bus", spiCmd.PersistentFlags().Lookup("bus"))
	_ = viper.BindPFlag("spi.chip", spiCmd.PersistentFlags().Lookup("chip"))
	_ = viper.BindPFlag("spi.speed", spiCmd.PersistentFlags().Lookup("speed"))
	_ = viper.BindPFlag("spi.cs-gpio", spiCmd.PersistentFlags().Lookup("cs-gpio"))
}

// parseGPIOLine parses "<chip>:<offset>", e.g. "gpiochip0:17".
func parseGPIOLine(s string) (string, int, error) {
	chip, offsetStr, ok := strings.Cut(s, ":")
	if !ok || chip == "" {
		return "", 0, fmt.Errorf("invalid gpio line %q (expected <chip>:<offset>)", s)
	}
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return "", 0, fmt.Errorf("invalid gpio offset in %q", s)
	}
	return chip, offset, nil
}

func spiOptions() ([]spi.Option, error) {
	opts := []spi.Option{spi.WithLogger(logger)}
	if speed := viper.GetString("spi.speed"); speed != "" {
		hz, err := parseFrequency(speed)
		if err != nil {
			return nil, err
		}
		opts = append(opts, spi.WithMaxSpeedHz(hz))
	}
	if line := viper.GetString("spi.cs-gpio"); line != "" {
		chip, offset, err := parseGPIOLine(line)
		if err != nil {
			return nil, err
		}
		opts = append(opts, spi.WithNoCS(true), spi.WithChipSelectLine(chip, offset))
	}
	return opts, nil
}

// mustOpenDevice opens the configured spidev node or exits.
func mustOpenDevice(extra ...spi.Option) *spi.Device {
	opts, err := spiOptions()
	exitOnError("parsing options", err)

	bus, chip := viper.GetInt("spi.bus"), viper.GetInt("spi.chip")
	dev, err := spi.Open(bus, chip, append(opts, extra...)...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", spi.DevicePath(bus, chip), err)
		os.Exit(1)
	}
	return dev
}
