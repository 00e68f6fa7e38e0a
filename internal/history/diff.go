package history

import "github.com/nao1215/osintdata/internal/dataset"

// ChangeType describes how a dataset file differs between two runs.
type ChangeType string

const (
	// ChangeAdded means the dataset is only in the newer run.
	ChangeAdded ChangeType = "added"

	// ChangeRemoved means the dataset is only in the older run.
	ChangeRemoved ChangeType = "removed"

	// ChangeModified means the file contents changed.
	ChangeModified ChangeType = "modified"
)

// Change is one dataset that differs between two runs.
type Change struct {
	Name dataset.Name `json:"name"`
	Type ChangeType   `json:"type"`

	PrevEntries int    `json:"prev_entries"`
	CurEntries  int    `json:"cur_entries"`
	PrevDigest  string `json:"prev_digest,omitempty"`
	CurDigest   string `json:"cur_digest,omitempty"`
}

// Delta returns the change in entry count.
func (c Change) Delta() int {
	return c.CurEntries - c.PrevEntries
}

// Diff compares the dataset statistics of two runs. Unchanged datasets are
// omitted. Changes follow cur's order, then removed datasets in prev's order.
// A nil prev reports every dataset in cur as added.
func Diff(prev, cur *Run) []Change {
	var prevStats, curStats []dataset.FileStat
	if prev != nil {
		prevStats = prev.Datasets
	}
	if cur != nil {
		curStats = cur.Datasets
	}

	old := make(map[dataset.Name]dataset.FileStat, len(prevStats))
	for _, st := range prevStats {
		old[st.Name] = st
	}

	var changes []Change
	seen := make(map[dataset.Name]bool, len(curStats))
	for _, st := range curStats {
		seen[st.Name] = true

		p, ok := old[st.Name]
		switch {
		case !ok:
			changes = append(changes, Change{
				Name:       st.Name,
				Type:       ChangeAdded,
				CurEntries: st.Entries,
				CurDigest:  st.Digest,
			})
		case p.Digest != st.Digest:
			changes = append(changes, Change{
				Name:        st.Name,
				Type:        ChangeModified,
				PrevEntries: p.Entries,
				CurEntries:  st.Entries,
				PrevDigest:  p.Digest,
				CurDigest:   st.Digest,
			})
		}
	}

	for _, st := range prevStats {
		if !seen[st.Name] {
			changes = append(changes, Change{
				Name:        st.Name,
				Type:        ChangeRemoved,
				PrevEntries: st.Entries,
				PrevDigest:  st.Digest,
			})
		}
	}

	return changes
}
