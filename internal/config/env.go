package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file picked up from the current directory
// when no explicit env file is configured.
const DefaultEnvFile = ".env"

// ErrEnvFileNotFound is returned when an explicitly configured dotenv file
// does not exist.
var ErrEnvFileNotFound = errors.New("env file not found")

// ResolveDatasetDir returns the directory under which all dataset files are
// located: OSINT_DATASET_DIR if set and non-empty, DefaultDatasetDir otherwise.
// The directory itself is not checked for existence.
func ResolveDatasetDir() string {
	return ResolveDatasetDirOr(DefaultDatasetDir)
}

// ResolveDatasetDirOr is ResolveDatasetDir with a caller-supplied fallback,
// used when a config file already chose a directory.
func ResolveDatasetDirOr(fallback string) string {
	return resolveDatasetDir(os.LookupEnv, fallback)
}

func resolveDatasetDir(lookup func(string) (string, bool), fallback string) string {
	if dir, ok := lookup(EnvDatasetDir); ok && dir != "" {
		return dir
	}
	return fallback
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overwriting variables that are already set.
//
// With an empty path, .env in the current directory is loaded if present and
// silently skipped otherwise. An explicit path that does not exist returns
// ErrEnvFileNotFound.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return fmt.Errorf("%w: %s", ErrEnvFileNotFound, path)
			}
			return nil
		}
		return fmt.Errorf("failed to stat env file %s: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
