package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/osintdata/internal/config"
	"github.com/nao1215/osintdata/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded dataset checks",
		Long: `History lists the runs recorded by 'osintdata check', newest first.
Successful runs show their dataset count; failed runs show the error.

Examples:
  # Show the last 20 runs
  osintdata history

  # Show every run as JSON
  osintdata history --limit 0 --json

  # Show one run with its per-file statistics
  osintdata history --run 3f0c...`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	addReportFlags(cmd)
	addDBFlag(cmd)
	cmd.Flags().IntP("limit", "l", config.DefaultHistoryLimit,
		"Maximum number of runs to show, 0 for all")
	cmd.Flags().String("run", "",
		"Show only the run with this ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}
	if err := readDBFlag(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		if cfg.HistoryLimit, err = cmd.Flags().GetInt("limit"); err != nil {
			return err
		}
	}
	runID, err := cmd.Flags().GetString("run")
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

	w := newReportWriter(cfg, cmd.OutOrStdout())

	// Listing history never creates the database.
	if _, err := os.Stat(filepath.Join(cfg.DBDir, history.DBFile)); errors.Is(err, os.ErrNotExist) {
		if runID != "" {
			return fmt.Errorf("run not found: %s", runID)
		}
		logger.Debug("no history database", "dir", cfg.DBDir)
		_, err := w.WriteHistory(nil)
		return err
	}

	store, err := history.Open(cfg.DBDir, history.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	var runs []*history.Run
	if runID != "" {
		run, err := store.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run not found: %s", runID)
		}
		runs = []*history.Run{run}
	} else {
		if runs, err = store.ListRuns(ctx, cfg.HistoryLimit); err != nil {
			return err
		}
	}

	_, err = w.WriteHistory(runs)
	return err
}
