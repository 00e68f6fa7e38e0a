package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/osintdata/internal/history"
	"github.com/nao1215/osintdata/internal/osint"
)

// JSONWriter outputs reports in JSON format for tool integration.
// Every document is wrapped in an envelope carrying the tool version.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is stamped into every envelope.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is shorthand for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the version reported in the envelope.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// summaryDocument is the JSON form of a Summary.
type summaryDocument struct {
	Version      string   `json:"version,omitempty"`
	Summary      *Summary `json:"summary"`
	TotalEntries int      `json:"total_entries"`
	TotalBytes   int64    `json:"total_bytes"`
}

// historyDocument is the JSON form of a run list.
type historyDocument struct {
	Version string         `json:"version,omitempty"`
	Runs    []*history.Run `json:"runs"`
}

// lookupDocument is the JSON form of lookup results.
type lookupDocument struct {
	Version string         `json:"version,omitempty"`
	Total   int            `json:"total"`
	Signals int            `json:"signals"`
	Results []osint.Result `json:"results"`
}

// WriteSummary outputs the load summary as JSON.
func (w *JSONWriter) WriteSummary(s *Summary) (int, error) {
	return w.writeJSON(summaryDocument{
		Version:      w.version,
		Summary:      s,
		TotalEntries: s.TotalEntries(),
		TotalBytes:   s.TotalBytes(),
	})
}

// WriteHistory outputs recorded runs as JSON.
func (w *JSONWriter) WriteHistory(runs []*history.Run) (int, error) {
	if runs == nil {
		runs = []*history.Run{}
	}
	return w.writeJSON(historyDocument{Version: w.version, Runs: runs})
}

// WriteLookup outputs classification results as JSON.
func (w *JSONWriter) WriteLookup(results []osint.Result) (int, error) {
	if results == nil {
		results = []osint.Result{}
	}
	return w.writeJSON(lookupDocument{
		Version: w.version,
		Total:   len(results),
		Signals: countSignals(results),
		Results: results,
	})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
