package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "osintdata"

	// EnvDatasetDir is the environment variable that selects the directory
	// holding the OSINT dataset files.
	EnvDatasetDir = "OSINT_DATASET_DIR"

	// DefaultDatasetDir is used when OSINT_DATASET_DIR is unset or empty.
	// It matches the path the datasets are baked into in the service image.
	DefaultDatasetDir = "/usr/src/app/osint_datasets_files"

	// DefaultLogLevel is "info" so the load confirmation is visible at startup.
	DefaultLogLevel = "info"

	// DefaultLogFormat is human-readable key=value output.
	DefaultLogFormat = "text"

	// DefaultConcurrency is the number of lookup workers used by
	// `osintdata lookup`. The dataset is read-only, so readers never contend.
	DefaultConcurrency = 8

	// DefaultHistoryLimit is how many load runs `osintdata history` shows.
	DefaultHistoryLimit = 20
)

// Config holds all configuration options for osintdata.
// It is populated from defaults, the config file, the environment and CLI
// flags, then passed explicitly to every component that needs it.
type Config struct {
	// DatasetDir is the directory under which all six dataset files live.
	// Its existence is not checked here; each file is checked when loaded.
	DatasetDir string

	// ConfigFilePath is the path to the YAML configuration file.
	// If empty, .osintdata is searched for in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// EnvFile is an optional dotenv file loaded before OSINT_DATASET_DIR
	// is resolved. Variables already present in the process take priority.
	EnvFile string

	// Verbose forces debug-level logging regardless of LogLevel.
	Verbose bool

	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string

	// LogFormat is "text" or "json".
	LogFormat string

	// JSONReport enables JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the load history database.
	// Defaults to the XDG data directory (~/.local/share/osintdata on Linux).
	DBDir string

	// SaveToDB records each `check` run in the history database.
	SaveToDB bool

	// Concurrency is the number of concurrent lookup workers.
	Concurrency int

	// HistoryLimit caps the number of runs listed by `history`. Zero lists all.
	HistoryLimit int
}

// NewConfig creates a new Config with default values.
// The dataset directory starts at DefaultDatasetDir; callers layer the
// config file, environment and flags on top.
func NewConfig() *Config {
	return &Config{
		DatasetDir:   DefaultDatasetDir,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		DBDir:        XDGDataDir(),
		SaveToDB:     true,
		Concurrency:  DefaultConcurrency,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// ApplyFile overlays the non-zero values of a config file onto c.
// A nil file is a no-op.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.DatasetDir != "" {
		c.DatasetDir = f.DatasetDir
	}
	if f.EnvFile != "" {
		c.EnvFile = f.EnvFile
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.LogFormat != "" {
		c.LogFormat = f.LogFormat
	}
	if f.DatabaseDir != "" {
		c.DBDir = f.DatabaseDir
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.History != nil {
		c.SaveToDB = *f.History
	}
}

// XDGDataDir returns the XDG data directory for osintdata.
// On Linux: ~/.local/share/osintdata
// On macOS: ~/Library/Application Support/osintdata
// On Windows: %LOCALAPPDATA%\osintdata
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for osintdata.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// validLogLevels lists the level names accepted by internal/log.ParseLevel.
var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatasetDir) == "" {
		return ErrEmptyDatasetDir
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.HistoryLimit < 0 {
		return ErrInvalidHistoryLimit
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
