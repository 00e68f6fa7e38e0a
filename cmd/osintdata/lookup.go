package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/osintdata/internal/config"
	"github.com/nao1215/osintdata/internal/osint"
	"github.com/nao1215/osintdata/internal/report"
	"github.com/spf13/cobra"
)

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [values...]",
		Short: "Check emails, domains, URLs or paths against the OSINT datasets",
		Long: `Lookup loads the OSINT datasets and labels each value with the signals
it matches:

  DISPOSABLE_EMAIL_DOMAIN  the domain is a disposable email provider
  FREE_EMAIL_DOMAIN        the domain is a free email provider
  BREACHED_ORG_DOMAIN      the domain belongs to a breached organisation
  SENSITIVE_FILE_PATH      the path names a config, backup, credential or key file
  ADMIN_PANEL_PATH         the path is, or is below, a known admin panel
  CLOUD_HOSTED             the host matches a cloud provider fingerprint
  NO_OSINT_SIGNAL          nothing matched

Domains match on the host and every parent domain down to the
registrable domain, so mail.example.co.uk matches a listed example.co.uk.

Examples:
  # Look up a few values
  osintdata lookup user@mailinator.com https://bucket.s3.amazonaws.com/.env

  # Look up values from a file, one per line ('#' starts a comment)
  osintdata lookup -f inputs.txt

  # Read values from stdin and output JSON
  cat inputs.txt | osintdata lookup -f - --json`,
		Args: cobra.ArbitraryArgs,
		RunE: runLookupCmd,
	}

	addReportFlags(cmd)
	cmd.Flags().StringP("file", "f", "",
		"Read values from file, one per line (use - for stdin)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of concurrent lookups")
	cmd.Flags().BoolP("signals-only", "s", false,
		"Only show values that matched a dataset (text output)")

	return cmd
}

// runLookupCmd executes the lookup command.
func runLookupCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return err
		}
	}
	signalsOnly, err := cmd.Flags().GetBool("signals-only")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	values := append([]string(nil), args...)
	if file, err := cmd.Flags().GetString("file"); err != nil {
		return err
	} else if file != "" {
		fromFile, err := readValues(cmd.InOrStdin(), file)
		if err != nil {
			return err
		}
		values = append(values, fromFile...)
	}
	if len(values) == 0 {
		return errors.New("no values provided (pass them as arguments or with --file)")
	}

	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ds, err := loadDatasets(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	results, err := osint.NewChecker(ds).ClassifyAll(ctx, values, cfg.Concurrency)
	if err != nil {
		return fmt.Errorf("lookup interrupted: %w", err)
	}

	logger.Debug("lookup finished", "values", len(values), "concurrency", cfg.Concurrency)

	var w report.Writer
	if !cfg.JSONReport && !cfg.MarkdownReport {
		w = report.NewTextWriter(cmd.OutOrStdout(),
			report.WithVerbose(cfg.Verbose),
			report.WithSignalsOnly(signalsOnly),
		)
	} else {
		w = newReportWriter(cfg, cmd.OutOrStdout())
	}

	_, err = w.WriteLookup(results)
	return err
}

// readValues reads one value per line from path, or from stdin when path is "-".
// Blank lines and lines starting with '#' are skipped.
func readValues(stdin io.Reader, path string) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var values []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values = append(values, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return values, nil
}
