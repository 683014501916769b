package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adrestia/pdv/pkg/config"
	"github.com/adrestia/pdv/pkg/report"
	"github.com/adrestia/pdv/pkg/server"
	"github.com/spf13/cobra"
)

// errVerdictFail makes the command exit non-zero on a failing verdict.
var errVerdictFail = errors.New("aggregate verdict is fail")

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the aggregate verdict of the configured store",
	Long: `Scan the configured results store once, print the aggregate report as
JSON and exit non-zero if the verdict is fail or the scan hit a bad record.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	rep := report.New(st).Report(cmd.Context())

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(server.NewReportResponse(rep)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if rep.Err != nil {
		return rep.Err
	}
	if rep.Failed() {
		return errVerdictFail
	}
	return nil
}
