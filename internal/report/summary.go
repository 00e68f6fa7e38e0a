package report

import (
	"time"

	"github.com/nao1215/osintdata/internal/dataset"
	"github.com/nao1215/osintdata/internal/history"
	"github.com/nao1215/osintdata/internal/osint"
)

// Summary describes one successful dataset load.
type Summary struct {
	// RunID is the history run ID, empty when history is disabled.
	RunID string `json:"run_id,omitempty"`

	BaseDir  string        `json:"base_dir"`
	LoadedAt time.Time     `json:"loaded_at"`
	Duration time.Duration `json:"duration_ns"`

	// Datasets holds per-file statistics in manifest order.
	Datasets []dataset.FileStat `json:"datasets"`

	// PreviousRunID is the run Changes were computed against, empty when
	// there was no earlier successful run.
	PreviousRunID string `json:"previous_run_id,omitempty"`

	// Changes lists datasets that differ from the previous run.
	Changes []history.Change `json:"changes,omitempty"`
}

// NewSummary creates a Summary for a loaded dataset.
func NewSummary(ds *dataset.Dataset) *Summary {
	return &Summary{
		BaseDir:  ds.BaseDir(),
		LoadedAt: ds.LoadedAt(),
		Duration: ds.Duration(),
		Datasets: ds.Stats(),
	}
}

// SetHistory records the current run and, when prev is non-nil, the changes
// since that run.
func (s *Summary) SetHistory(prev, cur *history.Run) {
	if cur != nil {
		s.RunID = cur.ID
	}
	if prev != nil {
		s.PreviousRunID = prev.ID
		s.Changes = history.Diff(prev, cur)
	}
}

// HistoryEnabled reports whether the load was recorded.
func (s *Summary) HistoryEnabled() bool {
	return s.RunID != ""
}

// TotalEntries returns the sum of entries across all datasets.
func (s *Summary) TotalEntries() int {
	total := 0
	for _, st := range s.Datasets {
		total += st.Entries
	}
	return total
}

// TotalBytes returns the combined size of all dataset files.
func (s *Summary) TotalBytes() int64 {
	var total int64
	for _, st := range s.Datasets {
		total += st.Bytes
	}
	return total
}

// countSignals returns how many results carry at least one signal.
func countSignals(results []osint.Result) int {
	n := 0
	for _, r := range results {
		if r.HasSignal() {
			n++
		}
	}
	return n
}

// countLabels tallies labels across results, in the order first seen.
func countLabels(results []osint.Result) ([]osint.Label, map[osint.Label]int) {
	var order []osint.Label
	counts := make(map[osint.Label]int)
	for _, r := range results {
		for _, l := range r.Labels {
			if l == osint.LabelNone {
				continue
			}
			if counts[l] == 0 {
				order = append(order, l)
			}
			counts[l]++
		}
	}
	return order, counts
}
