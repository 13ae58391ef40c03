/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/allbin/go-pureio/internal/tui/components"
	"github.com/allbin/go-pureio/internal/tui/models"
	"github.com/allbin/go-pureio/smbus"
)

// i2cWatchCmd represents the i2c watch command
var i2cWatchCmd = &cobra.Command{
	Use:   "watch <address>",
	Short: "Watch device registers change live",
	Long: `Poll a range of registers and show them in a live table. Registers
that changed since the previous poll are highlighted.

Keys:
  space/p  pause and resume polling
  r        read now
  +/-      poll faster or slower
  a        toggle the character column
  ?        full help
  q        quit

Examples:
  pureio i2c watch 0x68 --first 0x3b --count 14
  pureio i2c watch 0x48 --count 4 --interval 250ms`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		firstArg, _ := cmd.Flags().GetString("first")
		count, _ := cmd.Flags().GetInt("count")
		interval, _ := cmd.Flags().GetDuration("interval")
		logFile, _ := cmd.Flags().GetString("log-file")

		first, err := parseByte(firstArg)
		exitOnError("parsing --first", err)
		if count < 1 || int(first)+count > 256 {
			exitOnError("parsing --count", fmt.Errorf("%d registers from 0x%02x run past 0xff", count, first))
		}

		// The terminal belongs to the TUI, so logs only go to --log-file.
		watchLogger := zerolog.Nop()
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			exitOnError("opening log file", err)
			defer f.Close()
			watchLogger = logger.Output(f)
		}

		addr, opts := argsAddress(args)
		bus := mustOpenBus(append(opts, smbus.WithLogger(watchLogger))...)
		defer bus.Close()

		m := models.NewWatchModel(bus, components.WatchInfo{
			BusPath:  bus.Path(),
			Addr:     addr,
			First:    first,
			Count:    count,
			Interval: interval,
		}, watchLogger)

		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err = p.Run()
		exitClosing(bus, "running watch", err)
	},
}

func init() {
	i2cCmd.AddCommand(i2cWatchCmd)

	i2cWatchCmd.Flags().String("first", "0x00", "First register")
	i2cWatchCmd.Flags().IntP("count", "n", 16, "Number of registers")
	i2cWatchCmd.Flags().DurationP("interval", "i", 500*time.Millisecond, "Poll interval")
	i2cWatchCmd.Flags().String("log-file", "", "Write logs to this file while the TUI runs")
}
