package dataset

import "fmt"

// Kind describes how a dataset file is parsed.
type Kind int

const (
	// KindLineSet is a newline-delimited text file; each non-blank line
	// becomes one normalized set member.
	KindLineSet Kind = iota + 1

	// KindJSON is a JSON document loaded as-is.
	KindJSON
)

// String returns "line-set" or "json".
func (k Kind) String() string {
	switch k {
	case KindLineSet:
		return "line-set"
	case KindJSON:
		return "json"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler so reports show the name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "line-set":
		*k = KindLineSet
	case "json":
		*k = KindJSON
	default:
		return fmt.Errorf("unknown dataset kind %q", text)
	}
	return nil
}

// Name is the logical name of a dataset, independent of its filename.
type Name string

// Logical dataset names.
const (
	SensitiveFiles     Name = "sensitive_files"
	DisposableDomains  Name = "disposable_domains"
	FreeDomains        Name = "free_domains"
	BreachedOrgDomains Name = "breached_org_domains"
	AdminPaths         Name = "admin_paths"
	CloudFingerprints  Name = "cloud_fingerprints"
)

// Entry maps one logical name to its file and parse kind.
type Entry struct {
	Name     Name
	Filename string
	Kind     Kind
}

// Manifest is the ordered list of datasets loaded at startup.
type Manifest []Entry

// DefaultManifest returns the fixed manifest in load order.
// A fresh slice is returned on every call.
func DefaultManifest() Manifest {
	return Manifest{
		{Name: SensitiveFiles, Filename: "sensitive_files_config_backup_creds_keys.txt", Kind: KindLineSet},
		{Name: DisposableDomains, Filename: "disposable_email_blocklist_deduped.txt", Kind: KindLineSet},
		{Name: FreeDomains, Filename: "free-email-domain.txt", Kind: KindLineSet},
		{Name: BreachedOrgDomains, Filename: "breached_org_domains.txt", Kind: KindLineSet},
		{Name: AdminPaths, Filename: "high_signal_admin_panels.txt", Kind: KindLineSet},
		{Name: CloudFingerprints, Filename: "cloud_indicators.json", Kind: KindJSON},
	}
}

// Lookup returns the entry for name.
func (m Manifest) Lookup(name Name) (Entry, bool) {
	for _, e := range m {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the logical names in manifest order.
func (m Manifest) Names() []Name {
	names := make([]Name, len(m))
	for i, e := range m {
		names[i] = e.Name
	}
	return names
}
