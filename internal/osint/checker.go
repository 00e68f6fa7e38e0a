package osint

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/nao1215/osintdata/internal/dataset"
	"golang.org/x/sync/errgroup"
)

// Checker classifies inputs against a loaded dataset.
// It is safe for concurrent use.
type Checker struct {
	data *dataset.Dataset

	// indicators are the cloud fingerprint strings, longest first so the most
	// specific one wins when several match.
	indicators []cloudIndicator
}

type cloudIndicator struct {
	provider string
	value    string
}

// NewChecker creates a Checker reading from data.
func NewChecker(data *dataset.Dataset) *Checker {
	c := &Checker{data: data}

	data.WalkCloudFingerprints(func(group, value string) bool {
		if v, ok := dataset.Normalize(value); ok {
			provider := group
			if provider == "" {
				provider = v
			}
			c.indicators = append(c.indicators, cloudIndicator{provider: provider, value: v})
		}
		return true
	})
	sort.Slice(c.indicators, func(i, j int) bool {
		a, b := c.indicators[i], c.indicators[j]
		if len(a.value) != len(b.value) {
			return len(a.value) > len(b.value)
		}
		if a.value != b.value {
			return a.value < b.value
		}
		return a.provider < b.provider
	})

	return c
}

// IsDisposableDomain reports whether a domain or email address belongs to a
// disposable email provider. Subdomains of a listed domain match.
func (c *Checker) IsDisposableDomain(s string) bool {
	_, ok := matchDomain(c.data.DisposableDomains(), s)
	return ok
}

// IsFreeEmailDomain reports whether a domain or email address belongs to a
// free email provider.
func (c *Checker) IsFreeEmailDomain(s string) bool {
	_, ok := matchDomain(c.data.FreeDomains(), s)
	return ok
}

// IsBreachedOrgDomain reports whether a domain or email address belongs to an
// organisation with a known breach.
func (c *Checker) IsBreachedOrgDomain(s string) bool {
	_, ok := matchDomain(c.data.BreachedOrgDomains(), s)
	return ok
}

// IsSensitiveFile reports whether a path or URL refers to a known sensitive
// config, backup, credential or key file.
func (c *Checker) IsSensitiveFile(p string) bool {
	return matchPath(c.data.SensitiveFiles(), pathOf(p))
}

// IsAdminPath reports whether a path or URL is, or is below, a known admin panel.
func (c *Checker) IsAdminPath(p string) bool {
	return matchPath(c.data.AdminPaths(), pathOf(p))
}

// CloudProvider returns the cloud_fingerprints group whose indicator occurs
// in host. When several match, the longest indicator wins.
func (c *Checker) CloudProvider(host string) (string, bool) {
	h, ok := NormalizeDomain(host)
	if !ok {
		return "", false
	}
	for _, ind := range c.indicators {
		if strings.Contains(h, ind.value) {
			return ind.provider, true
		}
	}
	return "", false
}

// Classify detects what kind of value s is and returns every label that applies.
func (c *Checker) Classify(s string) Result {
	res := Result{Input: s}

	v := strings.TrimSpace(s)
	if v == "" {
		res.Kind = KindEmpty
		res.Labels = []Label{LabelNone}
		return res
	}

	switch {
	case strings.Contains(v, "://"):
		res.Kind = KindURL
		if u, err := url.Parse(v); err == nil {
			c.classifyDomain(&res, u.Host)
			c.classifyPath(&res, u.Path)
		}
	case strings.Contains(v, "@") && !strings.ContainsAny(v, "/\\"):
		res.Kind = KindEmail
		c.classifyDomain(&res, v)
	case strings.ContainsAny(v, "/\\") || strings.HasPrefix(v, "."):
		res.Kind = KindPath
		c.classifyPath(&res, v)
	default:
		// A bare token such as "mailinator.com" or "wp-config.php.bak".
		// Run both checks; the kind only reflects which reading is likelier.
		if isRegisteredDomain(v) {
			res.Kind = KindDomain
		} else {
			res.Kind = KindPath
		}
		c.classifyDomain(&res, v)
		c.classifyPath(&res, v)
	}

	if len(res.Labels) == 0 {
		res.Labels = []Label{LabelNone}
	}
	return res
}

// ClassifyAll classifies values with up to concurrency workers and returns
// results in input order. It stops early if ctx is cancelled.
func (c *Checker) ClassifyAll(ctx context.Context, values []string, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(values))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, v := range values {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Classify(v)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Checker) classifyDomain(res *Result, host string) {
	checks := []struct {
		set        dataset.LineSet
		label      Label
		domainType string
	}{
		{c.data.DisposableDomains(), LabelDisposableEmail, DomainTypeDisposable},
		{c.data.BreachedOrgDomains(), LabelBreachedOrg, DomainTypeBreachedOrg},
		{c.data.FreeDomains(), LabelFreeEmail, DomainTypeFree},
	}

	for _, chk := range checks {
		if match, ok := matchDomain(chk.set, host); ok {
			res.Labels = append(res.Labels, chk.label)
			if res.DomainType == "" {
				res.Domain = match
				res.DomainType = chk.domainType
			}
		}
	}

	if provider, ok := c.CloudProvider(host); ok {
		res.Labels = append(res.Labels, LabelCloudHosted)
		res.CloudProvider = provider
	}
}

func (c *Checker) classifyPath(res *Result, p string) {
	if matchPath(c.data.SensitiveFiles(), p) {
		res.Labels = append(res.Labels, LabelSensitiveFile)
	}
	if matchPath(c.data.AdminPaths(), p) {
		res.Labels = append(res.Labels, LabelAdminPanel)
	}
}

// matchDomain returns the first domain candidate of s found in set.
func matchDomain(set dataset.LineSet, s string) (string, bool) {
	for _, cand := range domainCandidates(s) {
		if set.Contains(cand) {
			return cand, true
		}
	}
	return "", false
}

func matchPath(set dataset.LineSet, p string) bool {
	for _, cand := range pathCandidates(p) {
		if set.Contains(cand) {
			return true
		}
	}
	return false
}

// pathOf returns the path component of a URL, or p unchanged if it is not one.
func pathOf(p string) string {
	if strings.Contains(p, "://") {
		if u, err := url.Parse(strings.TrimSpace(p)); err == nil {
			return u.Path
		}
	}
	return p
}
