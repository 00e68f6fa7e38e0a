package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".osintdata"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .osintdata configuration file.
// Every field is optional; zero values leave the defaults untouched.
type File struct {
	// DatasetDir is the directory holding the dataset files.
	// OSINT_DATASET_DIR and --dataset-dir still take precedence.
	DatasetDir string `yaml:"datasetDir,omitempty"`

	// EnvFile is a dotenv file to load before resolving the environment.
	EnvFile string `yaml:"envFile,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`

	// LogFormat is text or json.
	LogFormat string `yaml:"logFormat,omitempty"`

	// DatabaseDir overrides the XDG data directory for the history database.
	DatabaseDir string `yaml:"databaseDir,omitempty"`

	// Concurrency sets the number of lookup workers.
	Concurrency int `yaml:"concurrency,omitempty"`

	// History toggles recording of `check` runs. A pointer distinguishes
	// "not set" from an explicit false.
	History *bool `yaml:"history,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .osintdata in the current directory
// 3. Look for .osintdata in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
