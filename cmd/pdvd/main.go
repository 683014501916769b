// Package main is the entry point for the PDV result aggregation service.
//
// Usage:
//
//	pdvd serve     # Start the HTTP service
//	pdvd report    # Scan the configured store once and print the verdict
//	pdvd version   # Show version info
//
// All settings come from the environment; see pkg/config.
package main

import (
	"fmt"
	"os"

	"github.com/adrestia/pdv/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
// Example: go build -ldflags "-X main.version=2024.01.15"
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "pdvd",
	Short: "Pass/fail result aggregation service",
	Long: `pdvd collects named pass/fail outcomes and reports whether any of them failed.

Clients submit outcomes with GET /submit/{name}/{pass|fail} and read the
aggregate verdict from GET /report.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pdvd %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging builds the process logger from the configured level and
// optional log file.
func setupLogging(cfg config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger.SetLevel(level)

	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(logFile)
		logger.Infof("Logging initialized. All logs will be written to %s", cfg.LogFile)
	}

	return logger, nil
}
