package dataset

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrDatasetMissing matches a *MissingError.
	ErrDatasetMissing = errors.New("missing OSINT dataset")

	// ErrDatasetParse matches a *ParseError.
	ErrDatasetParse = errors.New("invalid OSINT dataset")
)

// MissingError reports a required dataset file that does not exist.
// Path is the full path that was expected, so an operator can either supply
// the file or fix OSINT_DATASET_DIR.
type MissingError struct {
	Path string
}

func (e *MissingError) Error() string {
	return "missing OSINT dataset: " + e.Path
}

// Is reports whether target is ErrDatasetMissing.
func (e *MissingError) Is(target error) bool {
	return target == ErrDatasetMissing
}

// ParseError reports a dataset file that exists but cannot be parsed:
// invalid UTF-8 or an over-long line in a text dataset, or malformed JSON.
type ParseError struct {
	// Path is the full path of the file.
	Path string

	// Line is the 1-based line number, or 0 when not applicable.
	Line int

	// Err is the underlying decoder error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid OSINT dataset %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid OSINT dataset %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDatasetParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrDatasetParse
}
