package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/osintdata/internal/dataset"
	"github.com/nao1215/osintdata/internal/history"
	"github.com/nao1215/osintdata/internal/osint"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown, built with
// nao1215/markdown. Summaries include a mermaid pie chart of entry counts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteSummary outputs the load summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(s *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("OSINT Dataset Summary")
	md.PlainText("")

	rows := [][]string{
		{"Dataset Dir", "`" + s.BaseDir + "`"},
		{"Loaded At", s.LoadedAt.Format(timeLayout)},
		{"Duration", s.Duration.String()},
		{"Total Entries", strconv.Itoa(s.TotalEntries())},
	}
	if s.HistoryEnabled() {
		rows = append(rows, []string{"Run ID", "`" + s.RunID + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeDatasets(md, s.Datasets)
	w.writePieChart(md, s.Datasets)

	if s.HistoryEnabled() {
		w.writeChanges(md, s)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeDatasets(md *markdown.Markdown, stats []dataset.FileStat) {
	md.H2("Datasets")
	md.PlainText("")

	rows := make([][]string, len(stats))
	for i, st := range stats {
		rows[i] = []string{
			string(st.Name),
			"`" + st.Filename + "`",
			st.Kind.String(),
			strconv.Itoa(st.Entries),
			strconv.FormatInt(st.Bytes, 10),
			"`" + shortDigest(st.Digest) + "`",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "File", "Kind", "Entries", "Bytes", "SHA3-256"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of line-set entry counts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats []dataset.FileStat) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Entries per Dataset"),
		piechart.WithShowData(true),
	)

	plotted := 0
	for _, st := range stats {
		if st.Kind != dataset.KindLineSet || st.Entries <= 0 {
			continue
		}
		chart.LabelAndIntValue(string(st.Name), uint64(st.Entries))
		plotted++
	}
	if plotted == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeChanges(md *markdown.Markdown, s *Summary) {
	md.H2("Changes")
	md.PlainText("")

	switch {
	case s.PreviousRunID == "":
		md.Note("First recorded run; there is nothing to compare with.")
		md.PlainText("")
		return
	case len(s.Changes) == 0:
		md.Tip("No dataset changed since run `" + s.PreviousRunID + "`.")
		md.PlainText("")
		return
	}

	removed := 0
	rows := make([][]string, len(s.Changes))
	for i, c := range s.Changes {
		if c.Type == history.ChangeRemoved {
			removed++
		}
		rows[i] = []string{
			string(c.Name),
			string(c.Type),
			strconv.Itoa(c.PrevEntries),
			strconv.Itoa(c.CurEntries),
			strconv.Itoa(c.Delta()),
		}
	}

	if removed > 0 {
		md.Warningf("%d dataset(s) no longer present since run `%s`.", removed, s.PreviousRunID)
	} else {
		md.Importantf("%d dataset(s) changed since run `%s`.", len(s.Changes), s.PreviousRunID)
	}
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Dataset", "Change", "Before", "After", "Delta"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteHistory outputs recorded runs in Markdown format.
func (w *MarkdownWriter) WriteHistory(runs []*history.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("OSINT Dataset Load History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
	} else {
		failed := 0
		rows := make([][]string, len(runs))
		for i, run := range runs {
			var detail string
			if run.Succeeded() {
				detail = strconv.Itoa(len(run.Datasets)) + " datasets"
			} else {
				failed++
				detail = truncate(run.Error, 60, "...")
			}
			rows[i] = []string{
				run.StartedAt.Format(timeLayout),
				"`" + run.ID + "`",
				string(run.Status),
				"`" + run.BaseDir + "`",
				detail,
			}
		}

		if failed > 0 {
			md.Cautionf("%d of %d run(s) failed to load the datasets.", failed, len(runs))
			md.PlainText("")
		}

		md.Table(markdown.TableSet{
			Header: []string{"Started", "Run ID", "Status", "Dataset Dir", "Detail"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteLookup outputs classification results in Markdown format.
func (w *MarkdownWriter) WriteLookup(results []osint.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("OSINT Lookup")
	md.PlainText("")

	signals := countSignals(results)
	if signals > 0 {
		md.Warningf("%d of %d input(s) matched an OSINT dataset.", signals, len(results))
	} else {
		md.Tip("No input matched an OSINT dataset.")
	}
	md.PlainText("")

	if order, counts := countLabels(results); len(order) > 0 {
		md.H2("Signals")
		md.PlainText("")
		items := make([]string, len(order))
		for i, l := range order {
			items[i] = "`" + string(l) + "`: " + strconv.Itoa(counts[l])
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, len(results))
	for i, r := range results {
		labels := make([]string, len(r.Labels))
		for j, l := range r.Labels {
			labels[j] = string(l)
		}
		rows[i] = []string{
			"`" + truncate(r.Input, 60, "...") + "`",
			string(r.Kind),
			strings.Join(labels, ", "),
			orDash(r.DomainType),
			orDash(r.CloudProvider),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Input", "Kind", "Labels", "Domain Type", "Cloud"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by osintdata*")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
