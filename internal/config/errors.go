package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Callers match them with errors.Is(); none of them carry dynamic values,
// so plain errors.New() is enough.
var (
	// ErrEmptyDatasetDir is returned when the dataset directory resolved to an
	// empty string. This only happens when a flag or config file explicitly
	// clears it, since the environment lookup falls back to DefaultDatasetDir.
	ErrEmptyDatasetDir = errors.New("dataset directory is empty: set OSINT_DATASET_DIR or --dataset-dir")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidConcurrency is returned when the lookup concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidHistoryLimit is returned when the history limit is negative.
	// Zero means "no limit".
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be non-negative")

	// ErrInvalidLogFormat is returned for a log format other than "text" or "json".
	ErrInvalidLogFormat = errors.New("invalid log format: must be \"text\" or \"json\"")

	// ErrInvalidLogLevel is returned for an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level: must be one of debug, info, warn, error")
)
