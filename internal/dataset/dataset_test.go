package dataset

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sort"
	"testing"
)

// TestNewLineSet tests building a set from raw values.
func TestNewLineSet(t *testing.T) {
	t.Parallel()

	set := NewLineSet("Foo.COM", " foo.com ", "", "   ", "bar.net")

	if set.Len() != 2 {
		t.Errorf("expected 2 members, got %d: %v", set.Len(), set.Members())
	}
	if !set.Contains("foo.com") || !set.Contains("bar.net") {
		t.Errorf("unexpected members %v", set.Members())
	}
	if set.Contains("Foo.COM") {
		t.Error("Contains must not normalize")
	}
	if !set.Match("FOO.com") {
		t.Error("Match must normalize")
	}
	if set.Match("   ") {
		t.Error("blank input never matches")
	}

	var collected []string
	for m := range set.All() {
		collected = append(collected, m)
	}
	sort.Strings(collected)
	if !slices.Equal(collected, set.Members()) {
		t.Errorf("All and Members disagree: %v vs %v", collected, set.Members())
	}
}

// TestLineSetZeroValue tests that the zero value is usable.
func TestLineSetZeroValue(t *testing.T) {
	t.Parallel()

	var set LineSet
	if set.Len() != 0 || set.Contains("x") || set.Match("x") {
		t.Error("expected zero LineSet to be empty")
	}
	if !set.Equal(NewLineSet()) {
		t.Error("expected zero LineSet to equal an empty set")
	}
}

// TestNormalize tests the shared normalization rule.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "  Example.COM\t", want: "example.com", wantOK: true},
		{in: "ÉCOLE.fr", want: "école.fr", wantOK: true},
		{in: "\n\r ", want: "", wantOK: false},
		{in: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := Normalize(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
			if ok {
				again, _ := Normalize(got)
				if again != got {
					t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
				}
			}
		})
	}
}

// TestDatasetImmutability tests that accessors cannot be used to mutate the aggregate.
func TestDatasetImmutability(t *testing.T) {
	t.Parallel()

	dir := writeDatasetDir(t, nil)
	ds, err := Load(dir, WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("cloud fingerprints are copied", func(t *testing.T) {
		t.Parallel()

		cp, ok := ds.CloudFingerprints().(map[string]any)
		if !ok {
			t.Fatalf("expected object, got %T", ds.CloudFingerprints())
		}
		cp["aws"].([]any)[0] = "tampered"
		delete(cp, "gcp")

		fresh := ds.CloudFingerprints().(map[string]any)
		if fresh["aws"].([]any)[0] != "amazonaws.com" {
			t.Error("mutating a copy changed the dataset")
		}
		if _, ok := fresh["gcp"]; !ok {
			t.Error("deleting from a copy changed the dataset")
		}
	})

	t.Run("stats are copied", func(t *testing.T) {
		t.Parallel()

		stats := ds.Stats()
		stats[0].Entries = -1
		if ds.Stats()[0].Entries == -1 {
			t.Error("mutating Stats() result changed the dataset")
		}
	})

	t.Run("members are copied", func(t *testing.T) {
		t.Parallel()

		members := ds.FreeDomains().Members()
		members[0] = "tampered"
		if ds.FreeDomains().Contains("tampered") {
			t.Error("mutating Members() result changed the dataset")
		}
	})
}

// TestWalkCloudFingerprints tests generic traversal of the JSON dataset.
func TestWalkCloudFingerprints(t *testing.T) {
	t.Parallel()

	t.Run("object groups string leaves by top-level key", func(t *testing.T) {
		t.Parallel()

		ds := &Dataset{cloud: map[string]any{
			"aws":     []any{"amazonaws.com", map[string]any{"cdn": "cloudfront.net"}},
			"version": json.Number("2"),
		}}

		got := map[string][]string{}
		ds.WalkCloudFingerprints(func(group, value string) bool {
			got[group] = append(got[group], value)
			return true
		})
		sort.Strings(got["aws"])
		if !slices.Equal(got["aws"], []string{"amazonaws.com", "cloudfront.net"}) {
			t.Errorf("unexpected aws leaves %v", got["aws"])
		}
		if _, ok := got["version"]; ok {
			t.Error("numbers must not be reported as indicators")
		}
	})

	t.Run("array document uses empty group", func(t *testing.T) {
		t.Parallel()

		ds := &Dataset{cloud: []any{"a", "b"}}
		var groups []string
		ds.WalkCloudFingerprints(func(group, _ string) bool {
			groups = append(groups, group)
			return true
		})
		if !slices.Equal(groups, []string{"", ""}) {
			t.Errorf("expected two ungrouped leaves, got %q", groups)
		}
	})

	t.Run("returning false stops the walk", func(t *testing.T) {
		t.Parallel()

		ds := &Dataset{cloud: []any{"a", "b", "c"}}
		n := 0
		ds.WalkCloudFingerprints(func(string, string) bool {
			n++
			return false
		})
		if n != 1 {
			t.Errorf("expected 1 call, got %d", n)
		}
	})
}

// TestDatasetEqual tests content comparison edge cases.
func TestDatasetEqual(t *testing.T) {
	t.Parallel()

	a := &Dataset{sets: map[Name]LineSet{FreeDomains: NewLineSet("a.com")}, cloud: []any{"x"}}
	b := &Dataset{sets: map[Name]LineSet{FreeDomains: NewLineSet("A.com")}, cloud: []any{"x"}, baseDir: "/elsewhere"}
	c := &Dataset{sets: map[Name]LineSet{FreeDomains: NewLineSet("a.com")}, cloud: []any{"y"}}

	if !a.Equal(b) {
		t.Error("expected equal content regardless of base dir")
	}
	if a.Equal(c) {
		t.Error("expected different cloud fingerprints to compare unequal")
	}
	var nilDS *Dataset
	if a.Equal(nilDS) || !nilDS.Equal(nil) {
		t.Error("unexpected nil comparison result")
	}
}

// TestKind tests Kind text encoding.
func TestKind(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindLineSet, KindJSON} {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != k {
			t.Errorf("round trip of %v gave %v", k, back)
		}
	}

	var k Kind
	if err := k.UnmarshalText([]byte("csv")); err == nil {
		t.Error("expected error for unknown kind")
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("unexpected String for unknown kind: %s", Kind(9))
	}
}

// TestManifest tests manifest helpers.
func TestManifest(t *testing.T) {
	t.Parallel()

	m := DefaultManifest()
	if len(m) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(m))
	}

	e, ok := m.Lookup(CloudFingerprints)
	if !ok || e.Filename != "cloud_indicators.json" || e.Kind != KindJSON {
		t.Errorf("unexpected cloud entry %+v", e)
	}
	if _, ok := m.Lookup("nope"); ok {
		t.Error("expected unknown name to be absent")
	}

	m[0].Filename = "changed"
	if DefaultManifest()[0].Filename == "changed" {
		t.Error("DefaultManifest must return a fresh slice")
	}
}
