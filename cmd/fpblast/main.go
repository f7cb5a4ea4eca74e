package main

import (
	goflag "flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	configFile string
	logLevel   string
	cfg        = DefaultConfig()
)

// Subcommands that depend on optional back ends register themselves here.
var extraCommands []*cobra.Command

var rootCmd = &cobra.Command{
	Use:   "fpblast",
	Short: "fpblast, word-blasting of floating-point queries to bit-vectors",
	Long:  "",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = logLevel
		}
		level, err := log.ParseLevel(c.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		cfg = c
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "yaml configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(lowerCommand)
	for _, c := range extraCommands {
		rootCmd.AddCommand(c)
	}

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
