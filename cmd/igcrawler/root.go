package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"igcrawler/pkg/config"
	"igcrawler/pkg/logger"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igcrawler",
	Short: "Instagram Graph API crawler for posts and engagement insights",
	Long: `igcrawler retrieves post and engagement data from the Instagram
Graph API. It manages the OAuth token lifecycle, follows cursor-based
pagination with bounded retry and rate-limit backoff, and enriches
each post with the insight metrics applicable to its media type.

Results are written as JSON archives which the export command can
flatten into CSV views.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(hashtagCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(authCmd)
}

// loadConfig builds the configuration and the logger for a command run.
// Configuration problems are fatal before any request is made.
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := logger.New(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger setup failed: %w", err)
	}
	logger.SetLogger(log)

	return cfg, log, nil
}
