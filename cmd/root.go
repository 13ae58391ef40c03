/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  = zerolog.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pureio",
	Short: "Inspect and drive I2C and SPI devices from user space",
	Long: `pureio talks to I2C/SMBus adapters and spidev nodes through their
device files, without kernel drivers for the chips on the bus.

Examples:
  pureio i2c list
  pureio i2c detect --bus 1
  pureio i2c get 0x48 0x00 --mode w
  pureio i2c watch 0x68 --first 0x3b --count 14
  pureio spi xfer 9f 00 00 00 --bus 0 --chip 0

Settings can also come from $HOME/.pureio.yaml or PUREIO_* environment
variables, e.g. PUREIO_I2C_BUS=3.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pureio.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pureio")
	}

	viper.SetEnvPrefix("PUREIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()

	logger = newLogger(viper.GetString("log-level"))
	if readErr == nil {
		logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", readErr)
		os.Exit(1)
	}
}

// newLogger builds the console logger on stderr. Unknown levels fall back to warn.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
