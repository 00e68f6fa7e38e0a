package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/osintdata/internal/history"
	"github.com/nao1215/osintdata/internal/osint"
)

const (
	ruleWidth  = 70
	timeLayout = "2006-01-02 15:04:05 MST"
)

// TextWriter outputs human-readable text for terminal display.
// Output is plain ASCII so it can be piped to files or other tools.
type TextWriter struct {
	baseWriter

	// verbose adds full paths and digests to the output.
	verbose bool

	// signalsOnly hides lookup results without a signal.
	signalsOnly bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// WithSignalsOnly hides lookup results that matched nothing.
func WithSignalsOnly(only bool) TextWriterOption {
	return func(w *TextWriter) {
		w.signalsOnly = only
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteSummary outputs the load summary.
func (w *TextWriter) WriteSummary(s *Summary) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "OSINT DATASET SUMMARY")

	fmt.Fprintf(&sb, "Dataset Dir:  %s\n", s.BaseDir)
	fmt.Fprintf(&sb, "Loaded At:    %s\n", s.LoadedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Duration:     %s\n", s.Duration)
	if s.HistoryEnabled() {
		fmt.Fprintf(&sb, "Run ID:       %s\n", s.RunID)
	}
	sb.WriteString("\n")

	writeSection(&sb, "DATASETS")
	nameWidth := len("NAME")
	for _, st := range s.Datasets {
		nameWidth = max(nameWidth, len(st.Name))
	}
	fmt.Fprintf(&sb, "  %-*s  %-8s  %10s  %12s", nameWidth, "NAME", "KIND", "ENTRIES", "BYTES")
	if w.verbose {
		sb.WriteString("  DIGEST        PATH")
	}
	sb.WriteString("\n")
	for _, st := range s.Datasets {
		fmt.Fprintf(&sb, "  %-*s  %-8s  %10d  %12d", nameWidth, st.Name, st.Kind, st.Entries, st.Bytes)
		if w.verbose {
			fmt.Fprintf(&sb, "  %-12s  %s", shortDigest(st.Digest), st.Path)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  TOTAL: %d datasets, %d entries, %d bytes\n\n", len(s.Datasets), s.TotalEntries(), s.TotalBytes())

	if s.HistoryEnabled() {
		writeSection(&sb, "CHANGES")
		switch {
		case s.PreviousRunID == "":
			sb.WriteString("  No previous successful run to compare with\n")
		case len(s.Changes) == 0:
			fmt.Fprintf(&sb, "  No changes since run %s\n", s.PreviousRunID)
		default:
			fmt.Fprintf(&sb, "  Since run %s:\n", s.PreviousRunID)
			for _, c := range s.Changes {
				fmt.Fprintf(&sb, "  [%s] %-*s  %s\n", changeIndicator(c.Type), nameWidth, c.Name, describeChange(c))
			}
		}
		sb.WriteString("\n")
	}

	writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs recorded runs.
func (w *TextWriter) WriteHistory(runs []*history.Run) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "LOAD HISTORY")

	if len(runs) == 0 {
		sb.WriteString("  No runs recorded\n\n")
	}
	for _, run := range runs {
		fmt.Fprintf(&sb, "%s  %-7s  %s\n", run.StartedAt.Format(timeLayout), run.Status, run.ID)
		fmt.Fprintf(&sb, "  Dataset Dir: %s\n", run.BaseDir)
		if run.Succeeded() {
			entries := 0
			for _, st := range run.Datasets {
				entries += st.Entries
			}
			fmt.Fprintf(&sb, "  Loaded %d datasets, %d entries in %s\n", len(run.Datasets), entries, run.Duration)
		} else {
			fmt.Fprintf(&sb, "  Error: %s\n", run.Error)
		}
		sb.WriteString("\n")
	}

	writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteLookup outputs classification results.
func (w *TextWriter) WriteLookup(results []osint.Result) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "OSINT LOOKUP")

	for _, r := range results {
		if w.signalsOnly && !r.HasSignal() {
			continue
		}
		indicator := "-"
		if r.HasSignal() {
			indicator = "!"
		}
		fmt.Fprintf(&sb, "[%s] %s (%s)\n", indicator, r.Input, r.Kind)
		for _, l := range r.Labels {
			fmt.Fprintf(&sb, "    %s\n", l)
		}
		if r.DomainType != "" {
			fmt.Fprintf(&sb, "    Domain: %s (%s)\n", r.Domain, r.DomainType)
		}
		if r.CloudProvider != "" {
			fmt.Fprintf(&sb, "    Cloud Provider: %s\n", r.CloudProvider)
		}
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "  %d of %d inputs matched an OSINT dataset\n\n", countSignals(results), len(results))

	writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := max(0, (ruleWidth-len(title))/2)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by osintdata\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

func changeIndicator(t history.ChangeType) string {
	switch t {
	case history.ChangeAdded:
		return "+"
	case history.ChangeRemoved:
		return "-"
	case history.ChangeModified:
		return "~"
	default:
		return "?"
	}
}

// describeChange renders a change as e.g. "modified, +20 entries".
func describeChange(c history.Change) string {
	switch c.Type {
	case history.ChangeAdded:
		return fmt.Sprintf("added, %d entries", c.CurEntries)
	case history.ChangeRemoved:
		return fmt.Sprintf("removed, had %d entries", c.PrevEntries)
	default:
		return fmt.Sprintf("modified, %+d entries (%d -> %d)", c.Delta(), c.PrevEntries, c.CurEntries)
	}
}
