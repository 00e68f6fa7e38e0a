package osint

// Label is an OSINT signal attached to a classified input.
type Label string

// Labels produced by Classify.
const (
	LabelDisposableEmail Label = "DISPOSABLE_EMAIL_DOMAIN"
	LabelFreeEmail       Label = "FREE_EMAIL_DOMAIN"
	LabelBreachedOrg     Label = "BREACHED_ORG_DOMAIN"
	LabelSensitiveFile   Label = "SENSITIVE_FILE_PATH"
	LabelAdminPanel      Label = "ADMIN_PANEL_PATH"
	LabelCloudHosted     Label = "CLOUD_HOSTED"

	// LabelNone is the only label when nothing matched.
	LabelNone Label = "NO_OSINT_SIGNAL"
)

// Domain types reported in Result.DomainType, in priority order.
const (
	DomainTypeDisposable  = "disposable"
	DomainTypeBreachedOrg = "breached_org"
	DomainTypeFree        = "free"
)

// InputKind is what Classify took the input to be.
type InputKind string

// Input kinds.
const (
	KindEmail  InputKind = "email"
	KindURL    InputKind = "url"
	KindDomain InputKind = "domain"
	KindPath   InputKind = "path"
	KindEmpty  InputKind = "empty"
)

// Result is the classification of one input.
type Result struct {
	// Input is the value as given.
	Input string `json:"input"`

	// Kind is the detected input kind.
	Kind InputKind `json:"kind"`

	// Labels holds every matched signal, or just LabelNone.
	Labels []Label `json:"labels"`

	// Domain is the dataset entry that matched a domain check, if any.
	Domain string `json:"domain,omitempty"`

	// DomainType is the highest-priority domain match: disposable,
	// breached_org or free.
	DomainType string `json:"domain_type,omitempty"`

	// CloudProvider is the cloud_fingerprints group that matched the host.
	CloudProvider string `json:"cloud_provider,omitempty"`
}

// HasSignal reports whether any label other than LabelNone was attached.
func (r Result) HasSignal() bool {
	for _, l := range r.Labels {
		if l != LabelNone {
			return true
		}
	}
	return false
}
