package dataset

import (
	"reflect"
	"time"
)

// FileStat describes one loaded dataset file.
type FileStat struct {
	// Name is the logical dataset name.
	Name Name `json:"name"`

	// Filename is the manifest filename, relative to the base directory.
	Filename string `json:"filename"`

	// Kind is how the file was parsed.
	Kind Kind `json:"kind"`

	// Path is the full path the file was read from.
	Path string `json:"path"`

	// Entries is the number of set members for a line-set, or the number of
	// top-level members (object keys, array elements, 1 for a scalar) for JSON.
	Entries int `json:"entries"`

	// Bytes is the file size as read.
	Bytes int64 `json:"bytes"`

	// Digest is the hex SHA3-256 of the raw file contents.
	Digest string `json:"digest"`
}

// Dataset is the aggregate of all loaded datasets. It is created by Load and
// never modified afterwards; every accessor returns a read-only view or a copy.
type Dataset struct {
	baseDir  string
	loadedAt time.Time
	duration time.Duration

	sets  map[Name]LineSet
	cloud any

	// stats is in manifest order.
	stats []FileStat
}

// BaseDir returns the directory the datasets were read from.
func (d *Dataset) BaseDir() string { return d.baseDir }

// LoadedAt returns when the load started.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Duration returns how long the load took.
func (d *Dataset) Duration() time.Duration { return d.duration }

// Names returns the logical names of all loaded datasets in manifest order.
func (d *Dataset) Names() []Name {
	names := make([]Name, len(d.stats))
	for i, s := range d.stats {
		names[i] = s.Name
	}
	return names
}

// LineSet returns the line-set dataset called name.
func (d *Dataset) LineSet(name Name) (LineSet, bool) {
	s, ok := d.sets[name]
	return s, ok
}

// Get returns the dataset called name: a LineSet for text datasets, or a
// deep copy of the decoded JSON value for cloud_fingerprints.
func (d *Dataset) Get(name Name) (any, bool) {
	if s, ok := d.sets[name]; ok {
		return s, true
	}
	if name == CloudFingerprints {
		return d.CloudFingerprints(), true
	}
	return nil, false
}

// SensitiveFiles returns known sensitive config, backup, credential and key paths.
func (d *Dataset) SensitiveFiles() LineSet { return d.sets[SensitiveFiles] }

// DisposableDomains returns disposable email provider domains.
func (d *Dataset) DisposableDomains() LineSet { return d.sets[DisposableDomains] }

// FreeDomains returns free email provider domains.
func (d *Dataset) FreeDomains() LineSet { return d.sets[FreeDomains] }

// BreachedOrgDomains returns domains of organisations with known breaches.
func (d *Dataset) BreachedOrgDomains() LineSet { return d.sets[BreachedOrgDomains] }

// AdminPaths returns high-signal admin panel paths.
func (d *Dataset) AdminPaths() LineSet { return d.sets[AdminPaths] }

// CloudFingerprints returns a deep copy of the decoded cloud_indicators.json.
// The loader imposes no schema on it.
func (d *Dataset) CloudFingerprints() any {
	return cloneJSON(d.cloud)
}

// WalkCloudFingerprints calls fn for each string leaf in the cloud
// fingerprints, with the top-level key it sits under ("" when the document is
// not an object). It reads the stored value directly, without copying.
// Returning false from fn stops the walk.
func (d *Dataset) WalkCloudFingerprints(fn func(group, value string) bool) {
	if obj, ok := d.cloud.(map[string]any); ok {
		for k, v := range obj {
			if !walkStrings(v, func(s string) bool { return fn(k, s) }) {
				return
			}
		}
		return
	}
	walkStrings(d.cloud, func(s string) bool { return fn("", s) })
}

// Stats returns per-file statistics in manifest order.
func (d *Dataset) Stats() []FileStat {
	out := make([]FileStat, len(d.stats))
	copy(out, d.stats)
	return out
}

// Stat returns the statistics of a single dataset.
func (d *Dataset) Stat(name Name) (FileStat, bool) {
	for _, s := range d.stats {
		if s.Name == name {
			return s, true
		}
	}
	return FileStat{}, false
}

// Equal reports whether d and o hold the same content. Load metadata
// (time, duration, directory) is ignored.
func (d *Dataset) Equal(o *Dataset) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.sets) != len(o.sets) {
		return false
	}
	for name, s := range d.sets {
		other, ok := o.sets[name]
		if !ok || !s.Equal(other) {
			return false
		}
	}
	return reflect.DeepEqual(d.cloud, o.cloud)
}

// cloneJSON deep-copies a value produced by encoding/json.
func cloneJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneJSON(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneJSON(e)
		}
		return s
	default:
		// string, json.Number, bool, nil are immutable.
		return t
	}
}

func walkStrings(v any, fn func(string) bool) bool {
	switch t := v.(type) {
	case string:
		return fn(t)
	case map[string]any:
		for _, e := range t {
			if !walkStrings(e, fn) {
				return false
			}
		}
	case []any:
		for _, e := range t {
			if !walkStrings(e, fn) {
				return false
			}
		}
	}
	return true
}
