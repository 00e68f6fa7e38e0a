package dataset

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LineSet is a read-only set of normalized strings: trimmed, lower-cased,
// never empty, no duplicates. The zero value is an empty set.
type LineSet struct {
	members map[string]struct{}
}

// NewLineSet builds a LineSet from raw values, normalizing each one and
// dropping values that are blank after trimming.
func NewLineSet(values ...string) LineSet {
	n := newNormalizer()
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		if key, ok := n.normalize(v); ok {
			m[key] = struct{}{}
		}
	}
	return LineSet{members: m}
}

// Contains reports whether v is a member. v is compared as-is; use Match
// for raw, un-normalized input.
func (s LineSet) Contains(v string) bool {
	_, ok := s.members[v]
	return ok
}

// Match normalizes v the same way dataset lines are normalized and reports
// whether the result is a member.
func (s LineSet) Match(v string) bool {
	key, ok := Normalize(v)
	if !ok {
		return false
	}
	return s.Contains(key)
}

// Len returns the number of members.
func (s LineSet) Len() int {
	return len(s.members)
}

// All iterates over the members in unspecified order.
func (s LineSet) All() iter.Seq[string] {
	return maps.Keys(s.members)
}

// Members returns the members sorted, as a new slice.
func (s LineSet) Members() []string {
	return slices.Sorted(maps.Keys(s.members))
}

// Equal reports whether both sets hold exactly the same members.
func (s LineSet) Equal(o LineSet) bool {
	if len(s.members) != len(o.members) {
		return false
	}
	for k := range s.members {
		if _, ok := o.members[k]; !ok {
			return false
		}
	}
	return true
}

// Normalize trims surrounding whitespace and lower-cases v using Unicode
// full case mapping. ok is false if nothing is left after trimming.
func Normalize(v string) (key string, ok bool) {
	return newNormalizer().normalize(v)
}

// normalizer holds a lower-casing Caser. A cases.Caser is stateful and not
// safe for concurrent use, so each loader and each Normalize call gets its own.
type normalizer struct {
	lower cases.Caser
}

func newNormalizer() *normalizer {
	return &normalizer{lower: cases.Lower(language.Und)}
}

func (n *normalizer) normalize(v string) (string, bool) {
	t := strings.TrimSpace(v)
	if t == "" {
		return "", false
	}
	return n.lower.String(t), true
}
