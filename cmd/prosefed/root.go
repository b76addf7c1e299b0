package main

import (
	"fmt"
	"io"

	"github.com/pevans/prosefed/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "prosefed",
	Short:         "prosefed crawls classical prose translations into JSON Lines.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ~/.prosefed/config.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("store-dsn", "", "SQLite record store path (default prosefed.db)")
}

// loadSettings resolves settings with precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
// Flags specific to a subcommand are applied by apply.
func loadSettings(cmd *cobra.Command, apply func(*config.Settings) error) (*config.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	settings, err := config.Resolve(file)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		settings.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		settings.LogFormat, _ = cmd.Flags().GetString("log-format")
	}

	if cmd.Flags().Changed("store-dsn") {
		settings.StoreDSN, _ = cmd.Flags().GetString("store-dsn")
	}

	if apply != nil {
		if err := apply(settings); err != nil {
			return nil, err
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings, nil
}

// newLogger builds the logger handed to the crawl components.
func newLogger(settings *config.Settings, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	if settings.LogFormat == config.LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}
