package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/osintdata/internal/config"
	"github.com/nao1215/osintdata/internal/dataset"
	"github.com/nao1215/osintdata/internal/log"
	"github.com/nao1215/osintdata/internal/report"
	"github.com/spf13/cobra"
)

// buildConfig creates a Config from the configuration file, dotenv file,
// environment and global flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit config path must exist; the implicit lookup may find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if flags.Changed("env-file") {
		if cfg.EnvFile, err = flags.GetString("env-file"); err != nil {
			return nil, err
		}
	}
	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, err
	}

	cfg.DatasetDir = config.ResolveDatasetDirOr(cfg.DatasetDir)
	if flags.Changed("dataset-dir") {
		if cfg.DatasetDir, err = flags.GetString("dataset-dir"); err != nil {
			return nil, err
		}
	}

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = flags.GetString("log-level"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("log-format") {
		if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// addReportFlags registers the output format flags shared by the report commands.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
}

// readReportFlags copies the output format flags into cfg.
func readReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	return nil
}

// addDBFlag registers the history database directory flag.
func addDBFlag(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", "",
		"Directory for the history database (default: "+config.XDGDataDir()+")")
}

// readDBFlag copies the history database directory flag into cfg.
func readDBFlag(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("db-dir") {
		return nil
	}
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	cfg.DBDir = dir
	return nil
}

// setupLogger creates the structured logger for cfg, writing to the command's stderr.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := log.New(cmd.ErrOrStderr(), log.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return logger, nil
}

// loadDatasets reads every dataset from cfg.DatasetDir.
func loadDatasets(cfg *config.Config, logger *slog.Logger) (*dataset.Dataset, error) {
	ds, err := dataset.Load(cfg.DatasetDir, dataset.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OSINT datasets: %w", err)
	}
	return ds, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newReportWriter selects the writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// createReportFile creates path and any missing parent directories.
// Reports list local paths, so the file is only readable by the owner.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// writeReport writes through the configured writer to stdout, or, when
// cfg.ReportFile is set, to that file with a text copy on stdout.
func writeReport(cmd *cobra.Command, cfg *config.Config, write func(report.Writer) (int, error)) (err error) {
	stdout := cmd.OutOrStdout()

	if cfg.ReportFile == "" {
		_, err = write(newReportWriter(cfg, stdout))
		return err
	}

	f, err := createReportFile(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := report.NewMultiWriter(
		report.NewTextWriter(stdout, report.WithVerbose(cfg.Verbose)),
		newReportWriter(cfg, f),
	)
	_, err = write(w)
	return err
}
