package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/osintdata/internal/config"
	"github.com/nao1215/osintdata/internal/history"
	"github.com/nao1215/osintdata/internal/report"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load every OSINT dataset and report on it",
		Long: `Check loads all six OSINT datasets and prints a summary of each file:
its entry count, size and SHA3-256 digest.

Loading is fail-fast: the first missing or invalid file aborts the check
with a non-zero exit status, naming the path that was expected.

Each check is recorded in the history database, and the summary lists
the datasets that changed since the last successful check.

Examples:
  # Check the default dataset directory
  osintdata check

  # Check another directory
  osintdata check -D ./datasets

  # Write a Markdown report and keep a text summary on the terminal
  osintdata check --markdown -o report.md

  # Do not touch the history database
  osintdata check --no-history`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}

	addReportFlags(cmd)
	addDBFlag(cmd)
	cmd.Flags().StringP("output", "o", "",
		"Also write the report to the specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run or compare it with earlier runs")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCheckConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return runCheck(ctx, cmd, cfg, logger)
}

// buildCheckConfig adds the check flags to the global configuration.
func buildCheckConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := readReportFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := readDBFlag(cmd, cfg); err != nil {
		return nil, err
	}

	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.SaveToDB = false
	}

	return cfg, nil
}

// runCheck loads the datasets, records the run and writes the summary.
func runCheck(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug("starting check",
		"datasetDir", cfg.DatasetDir,
		"saveToDB", cfg.SaveToDB,
	)

	var store *history.Store
	if cfg.SaveToDB {
		var err error
		store, err = history.Open(cfg.DBDir, history.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
		logger.Debug("history database opened", "path", store.Path())
	}

	ds, loadErr := loadDatasets(cfg, logger)
	if loadErr != nil {
		if store != nil {
			if _, err := store.RecordFailure(ctx, cfg.DatasetDir, loadErr); err != nil {
				logger.Error("failed to record failed run", "error", err)
			}
		}
		return loadErr
	}

	summary := report.NewSummary(ds)

	if store != nil {
		// The previous run must be read before this one is stored.
		prev, err := store.LatestSuccessfulRun(ctx)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		cur, err := store.RecordRun(ctx, ds)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		summary.SetHistory(prev, cur)

		logger.Debug("run recorded",
			"runID", cur.ID,
			"changes", len(summary.Changes),
		)
	}

	return writeReport(cmd, cfg, func(w report.Writer) (int, error) {
		return w.WriteSummary(summary)
	})
}
