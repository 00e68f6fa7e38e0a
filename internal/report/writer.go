package report

import (
	"io"

	"github.com/nao1215/osintdata/internal/history"
	"github.com/nao1215/osintdata/internal/osint"
)

// Writer defines the interface for report output.
// Each method returns the number of bytes written and any error encountered.
type Writer interface {
	// WriteSummary outputs the result of a dataset load.
	WriteSummary(s *Summary) (int, error)

	// WriteHistory outputs recorded load runs, newest first.
	WriteHistory(runs []*history.Run) (int, error)

	// WriteLookup outputs OSINT classification results.
	WriteLookup(results []osint.Result) (int, error)
}

// MultiWriter writes to multiple Writers, e.g. the terminal and a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteSummary outputs the summary to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteSummary(s *Summary) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSummary(s) })
}

// WriteHistory outputs the runs to all configured Writers.
func (m *MultiWriter) WriteHistory(runs []*history.Run) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(runs) })
}

// WriteLookup outputs the results to all configured Writers.
func (m *MultiWriter) WriteLookup(results []osint.Result) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteLookup(results) })
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// shortDigest abbreviates a hex digest for display.
func shortDigest(d string) string {
	return truncate(d, 12, "")
}

// truncate shortens s to maxLen bytes, ending with suffix when cut.
func truncate(s string, maxLen int, suffix string) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(suffix) {
		return s[:maxLen]
	}
	return s[:maxLen-len(suffix)] + suffix
}
