/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	pureio "github.com/allbin/go-pureio"
	"github.com/allbin/go-pureio/internal/tui/styles"
)

// i2cListCmd represents the i2c list command
var i2cListCmd = &cobra.Command{
	Use:   "list",
	Short: "List I2C adapters",
	Long: `List the /dev/i2c-N adapters on the system.

With --table the adapter name and bound driver are read from sysfs.
Load the i2c-dev module if no adapters show up.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		buses, err := pureio.ListI2CBuses()
		runList(cmd, "I2C adapters", buses, err)
	},
}

// spiListCmd represents the spi list command
var spiListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spidev devices",
	Long: `List the /dev/spidevB.C nodes on the system, one per bus and chip select.

With --table the bound driver is read from sysfs.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		devices, err := pureio.ListSPIDevices()
		runList(cmd, "spidev devices", devices, err)
	},
}

func init() {
	i2cCmd.AddCommand(i2cListCmd)
	spiCmd.AddCommand(spiListCmd)

	i2cListCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
	spiListCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

func runList(cmd *cobra.Command, what string, paths []string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing %s: %v\n", what, err)
		os.Exit(1)
	}

	if len(paths) == 0 {
		fmt.Printf("No %s found\n", what)
		return
	}

	tableFormat, _ := cmd.Flags().GetBool("table")
	if tableFormat {
		fmt.Printf("Found %d %s:\n\n", len(paths), what)
		for _, line := range renderTable(paths, pureio.GetBusInfo) {
			fmt.Println(line)
		}
		return
	}

	for _, path := range paths {
		fmt.Println(path)
	}
}

// renderTable renders the bus list as a styled static table
func renderTable(paths []string, lookup func(string) (*pureio.BusInfo, error)) []string {
	// Define column widths
	nameWidth := 14
	busWidth := 8
	descWidth := 40

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s",
		nameWidth, "Device",
		busWidth, "Bus",
		descWidth, "Description")
	lines := []string{styles.HeaderStyle.Render(header)}

	for _, path := range paths {
		info, err := lookup(path)
		if err != nil {
			row := fmt.Sprintf("%-*s %-*s %-*s",
				nameWidth, path,
				busWidth, "?",
				descWidth, fmt.Sprintf("Error: %v", err))
			lines = append(lines, cellStyle.Render(styles.ErrorStyle.Render(row)))
			continue
		}

		bus := fmt.Sprintf("%d", info.Bus)
		if info.Kind == pureio.KindSPI {
			bus = fmt.Sprintf("%d.%d", info.Bus, info.Chip)
		}
		row := fmt.Sprintf("%-*s %-*s %-*s",
			nameWidth, info.Name,
			busWidth, bus,
			descWidth, describeBus(info))
		lines = append(lines, cellStyle.Render(row))
	}
	return lines
}

// describeBus joins the adapter name and driver that sysfs reported
func describeBus(info *pureio.BusInfo) string {
	switch {
	case info.Adapter != "" && info.Driver != "":
		return fmt.Sprintf("%s (%s)", info.Adapter, info.Driver)
	case info.Adapter != "":
		return info.Adapter
	case info.Driver != "":
		return info.Driver
	case info.Kind == pureio.KindSPI:
		return "spidev"
	default:
		return "I2C adapter"
	}
}
