package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"vitalz/dashboard"
	"vitalz/dashboard/defs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	production bool
)

var rootCmd = &cobra.Command{
	Use:          "vitalz",
	Short:        "Vitalz health dashboard",
	Long:         `Browse sleep, score and vital-sign statistics from the Vitalz backend.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "f", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&production, "production", false, "use production logging")

	rootCmd.AddCommand(serveCmd, browseCmd, usersCmd, dayCmd)
}

func newLogger() (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// setup loads the config file, a missing file falls back to defaults.
func setup() (*dashboard.Server, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("unable to create logger: %w", err)
	}

	config, err := defs.LoadConfig(configFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Debug("config file not found, using defaults", zap.String("file", configFile))
		config = defs.DefaultConfig()
	}
	config.Logger = logger

	logger.Debug("loaded config",
		zap.String("file", configFile),
		zap.String("baseURL", config.Vitalz.BaseURL),
		zap.Duration("timeout", config.Vitalz.Timeout),
		zap.String("address", config.HTTP.Address),
	)

	return dashboard.NewServer(config)
}
