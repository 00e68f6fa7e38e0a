package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler used for output.
type Format string

const (
	// FormatText writes key=value lines via slog.TextHandler.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line via slog.JSONHandler.
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	// Level is a level name accepted by ParseLevel. Empty means info.
	Level string

	// Format is "text" or "json". Empty means text.
	Format string

	// Verbose forces debug level, overriding Level.
	Verbose bool
}

// ParseLevel converts a level name to an slog.Level.
// Matching is case-insensitive; "warning" is accepted as an alias of "warn".
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", name)
	}
}

// New creates a redacting *slog.Logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	switch format {
	case FormatJSON:
		inner = slog.NewJSONHandler(w, handlerOpts)
	default:
		inner = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(NewRedactHandler(inner)), nil
}
