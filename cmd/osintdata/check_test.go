package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/osintdata/internal/config"
	"github.com/nao1215/osintdata/internal/dataset"
	"github.com/nao1215/osintdata/internal/history"
)

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints a text summary without history", func(t *testing.T) {
		t.Parallel()

		dir := writeDatasetDir(t)
		dbDir := t.TempDir()

		stdout, stderr, err := executeRoot(t, "check", "-D", dir, "--db-dir", dbDir, "--no-history")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{"OSINT DATASET SUMMARY", "free_domains", "cloud_fingerprints", "TOTAL: 6 datasets"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
			}
		}
		if strings.Contains(stdout, "CHANGES") {
			t.Error("expected no CHANGES section with --no-history")
		}
		if !strings.Contains(stderr, "OSINT datasets loaded successfully") {
			t.Errorf("expected load confirmation in logs, got %q", stderr)
		}
		if _, err := os.Stat(filepath.Join(dbDir, history.DBFile)); !errors.Is(err, os.ErrNotExist) {
			t.Error("expected no history database with --no-history")
		}
	})

	t.Run("reports changes between runs", func(t *testing.T) {
		t.Parallel()

		dir := writeDatasetDir(t)
		dbDir := t.TempDir()

		first, _, err := executeRoot(t, "check", "-D", dir, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("first check: %v", err)
		}
		if !strings.Contains(first, "No previous successful run to compare with") {
			t.Errorf("expected first run to have no baseline, got:\n%s", first)
		}

		second, _, err := executeRoot(t, "check", "-D", dir, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("second check: %v", err)
		}
		if !strings.Contains(second, "No changes since run") {
			t.Errorf("expected unchanged second run, got:\n%s", second)
		}

		writeFile(t, filepath.Join(dir, "free-email-domain.txt"), "gmail.com\nyahoo.com\noutlook.com\n")

		third, _, err := executeRoot(t, "check", "-D", dir, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("third check: %v", err)
		}
		if !strings.Contains(third, "[~] free_domains") {
			t.Errorf("expected free_domains to be modified, got:\n%s", third)
		}
		if strings.Contains(third, "[~] admin_paths") {
			t.Errorf("expected admin_paths to be unchanged, got:\n%s", third)
		}
	})

	t.Run("fails on a missing file and records the failure", func(t *testing.T) {
		t.Parallel()

		dir := writeDatasetDir(t)
		dbDir := t.TempDir()
		missing := filepath.Join(dir, "cloud_indicators.json")
		if err := os.Remove(missing); err != nil {
			t.Fatal(err)
		}

		_, stderr, err := executeRoot(t, "check", "-D", dir, "--db-dir", dbDir)
		if err == nil {
			t.Fatal("expected error for missing dataset")
		}
		if !errors.Is(err, dataset.ErrDatasetMissing) {
			t.Errorf("expected ErrDatasetMissing, got %v", err)
		}
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("expected error to name %s, got %v", missing, err)
		}
		if !strings.Contains(stderr, "missing OSINT dataset") {
			t.Errorf("expected error log, got %q", stderr)
		}

		out, _, err := executeRoot(t, "history", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if !strings.Contains(out, "failed") || !strings.Contains(out, missing) {
			t.Errorf("expected failed run naming %s, got:\n%s", missing, out)
		}
	})

	t.Run("fails on invalid JSON", func(t *testing.T) {
		t.Parallel()

		dir := writeDatasetDir(t)
		writeFile(t, filepath.Join(dir, "cloud_indicators.json"), `{"aws": [`)

		_, _, err := executeRoot(t, "check", "-D", dir, "--no-history")
		if !errors.Is(err, dataset.ErrDatasetParse) {
			t.Errorf("expected ErrDatasetParse, got %v", err)
		}
	})

	t.Run("outputs JSON", func(t *testing.T) {
		t.Parallel()

		dir := writeDatasetDir(t)

		stdout, _, err := executeRoot(t, "check", "-D", dir, "--no-history", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc struct {
			Summary struct {
				BaseDir  string `json:"base_dir"`
				Datasets []struct {
					Name    string `json:"name"`
					Entries int    `json:"entries"`
				} `json:"datasets"`
			} `json:"summary"`
			TotalEntries int `json:"total_entries"`
		}
		if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
		}
		if doc.Summary.BaseDir != dir {
			t.Errorf("expected base_dir %q, got %q", dir, doc.Summary.BaseDir)
		}
		if len(doc.Summary.Datasets) != 6 {
			t.Fatalf("expected 6 datasets, got %d", len(doc.Summary.Datasets))
		}
		if doc.Summary.Datasets[0].Name != "sensitive_files" {
			t.Errorf("expected manifest order, got %q first", doc.Summary.Datasets[0].Name)
		}
		if doc.TotalEntries == 0 {
			t.Error("expected non-zero total_entries")
		}
	})

	t.Run("rejects conflicting formats", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "check", "-D", writeDatasetDir(t), "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("rejects an invalid log level", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "--log-level", "loud", "check", "-D", writeDatasetDir(t), "--no-history")
		if !errors.Is(err, config.ErrInvalidLogLevel) {
			t.Errorf("expected ErrInvalidLogLevel, got %v", err)
		}
	})

	t.Run("writes a markdown report file", func(t *testing.T) {
		t.Parallel()

		dir := writeDatasetDir(t)
		outPath := filepath.Join(t.TempDir(), "reports", "summary.md")

		stdout, _, err := executeRoot(t, "check", "-D", dir, "--no-history", "--markdown", "-o", outPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "OSINT DATASET SUMMARY") {
			t.Errorf("expected text summary on stdout, got:\n%s", stdout)
		}

		content, err := os.ReadFile(outPath) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "OSINT Dataset Summary") {
			t.Errorf("expected markdown heading, got:\n%s", content)
		}
	})
}

// TestCheckCmdEnvironment cannot run in parallel because it sets OSINT_DATASET_DIR.
func TestCheckCmdEnvironment(t *testing.T) {
	t.Run("uses OSINT_DATASET_DIR", func(t *testing.T) {
		dir := writeDatasetDir(t)
		t.Setenv(config.EnvDatasetDir, dir)

		stdout, _, err := executeRoot(t, "check", "--no-history")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, dir) {
			t.Errorf("expected summary for %s, got:\n%s", dir, stdout)
		}
	})

	t.Run("flag overrides OSINT_DATASET_DIR", func(t *testing.T) {
		t.Setenv(config.EnvDatasetDir, filepath.Join(t.TempDir(), "missing"))
		dir := writeDatasetDir(t)

		stdout, _, err := executeRoot(t, "check", "-D", dir, "--no-history")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, dir) {
			t.Errorf("expected summary for %s, got:\n%s", dir, stdout)
		}
	})

	t.Run("missing directory names the expected path", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")
		t.Setenv(config.EnvDatasetDir, dir)

		_, _, err := executeRoot(t, "check", "--no-history")
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
		want := filepath.Join(dir, "sensitive_files_config_backup_creds_keys.txt")
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to name %s, got %v", want, err)
		}
	})
}
