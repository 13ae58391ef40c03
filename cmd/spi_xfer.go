/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allbin/go-pureio/internal/tui/components"
	"github.com/allbin/go-pureio/spi"
)

// spiXferCmd represents the spi xfer command
var spiXferCmd = &cobra.Command{
	Use:   "xfer [hex bytes...]",
	Short: "Exchange data with an SPI device",
	Long: `Clock bytes out and print what came back.

By default the transfer is full duplex: as many bytes are received as are
sent. --write-only sends without reading, and --read N clocks in N bytes
without sending. Data can be given as "9f 00 00", "0x9f,0x00" or "9f0000".

Examples:
  pureio spi xfer 9f 00 00 00
  pureio spi xfer --read 16 --speed 1M
  pureio spi xfer --write-only 02 00 10 de ad be ef
  pureio spi xfer 03 00 00 --delay 10us --cs-change`,
	Run: func(cmd *cobra.Command, args []string) {
		readLen, _ := cmd.Flags().GetInt("read")
		writeOnly, _ := cmd.Flags().GetBool("write-only")
		bits, _ := cmd.Flags().GetUint8("bits")
		delay, _ := cmd.Flags().GetDuration("delay")
		csChange, _ := cmd.Flags().GetBool("cs-change")
		noASCII, _ := cmd.Flags().GetBool("no-ascii")

		var xferOpts []spi.TransferOption
		if bits != 0 {
			xferOpts = append(xferOpts, spi.WithWordBits(bits))
		}
		if delay != 0 {
			xferOpts = append(xferOpts, spi.WithDelay(delay))
		}
		if csChange {
			xferOpts = append(xferOpts, spi.WithCSChange())
		}

		var tx []byte
		if len(args) > 0 {
			var err error
			tx, err = parseHexInput(strings.Join(args, " "))
			exitOnError("parsing data", err)
		}

		dev := mustOpenDevice()
		defer dev.Close()

		rx, err := spiXfer(dev, tx, readLen, writeOnly, xferOpts...)
		exitClosing(dev, "transferring", err)

		formatter := components.NewDataFormatter(true, !noASCII)
		if tx != nil {
			fmt.Printf("TX %s\n", formatter.FormatBytes(tx))
		}
		if rx != nil {
			fmt.Printf("RX %s\n", formatter.FormatBytes(rx))
		}
	},
}

func init() {
	spiCmd.AddCommand(spiXferCmd)

	spiXferCmd.Flags().IntP("read", "r", 0, "Read this many bytes without sending")
	spiXferCmd.Flags().BoolP("write-only", "w", false, "Send without reading")
	spiXferCmd.Flags().Uint8("bits", 0, "Bits per word for this transfer (default: device setting)")
	spiXferCmd.Flags().Duration("delay", 0, "Delay after the transfer before chip select changes")
	spiXferCmd.Flags().Bool("cs-change", false, "Release chip select after the transfer")
	spiXferCmd.Flags().Bool("no-ascii", false, "Hide the ASCII column")
}

// transferer is the part of *spi.Device the xfer command uses
type transferer interface {
	WriteBytes(data []byte, opts ...spi.TransferOption) error
	ReadBytes(n int, opts ...spi.TransferOption) ([]byte, error)
	Transfer(tx []byte, opts ...spi.TransferOption) ([]byte, error)
}

var _ transferer = (*spi.Device)(nil)

func spiXfer(dev transferer, tx []byte, readLen int, writeOnly bool, opts ...spi.TransferOption) ([]byte, error) {
	switch {
	case readLen > 0 && (len(tx) > 0 || writeOnly):
		return nil, fmt.Errorf("--read takes no data and cannot be combined with --write-only")
	case readLen > 0:
		return dev.ReadBytes(readLen, opts...)
	case len(tx) == 0:
		return nil, fmt.Errorf("nothing to send (give data or --read N)")
	case writeOnly:
		return nil, dev.WriteBytes(tx, opts...)
	default:
		return dev.Transfer(tx, opts...)
	}
}
