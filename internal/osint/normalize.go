package osint

import (
	"net"
	"path"
	"strings"

	"github.com/nao1215/osintdata/internal/dataset"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// NormalizeDomain reduces an email address, host or host:port to the
// normalized host used for dataset lookups. ok is false for blank input.
func NormalizeDomain(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		s = s[i+1:]
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		s = h
	}
	s = strings.Trim(s, "[]")
	s = strings.TrimSuffix(s, ".")
	return dataset.Normalize(s)
}

// domainCandidates returns the keys to try for host, most specific first:
// the host itself, then each parent domain down to the registrable domain
// (eTLD+1). Each key is given in its normalized form and, when different,
// its IDNA ASCII (punycode) form.
func domainCandidates(host string) []string {
	host, ok := NormalizeDomain(host)
	if !ok {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		ascii = host
	}

	for _, h := range []string{host, ascii} {
		floor, err := publicsuffix.EffectiveTLDPlusOne(h)
		if err != nil {
			add(h)
			continue
		}
		for cur := h; ; {
			add(cur)
			if cur == floor {
				break
			}
			i := strings.IndexByte(cur, '.')
			if i < 0 {
				break
			}
			cur = cur[i+1:]
		}
	}

	return out
}

// isRegisteredDomain reports whether s ends in an ICANN-managed public suffix
// and has a label in front of it, e.g. "example.com" but not "config.php".
func isRegisteredDomain(s string) bool {
	host, ok := NormalizeDomain(s)
	if !ok || strings.ContainsAny(host, "/ \\") {
		return false
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	return icann && suffix != host
}

// pathCandidates returns the keys to try for a file or URL path: every
// leading segment prefix with and without a leading and trailing slash, and
// the base name. "/Backup/db.sql" gives "/backup", "backup", "/backup/",
// "backup/", "/backup/db.sql", "backup/db.sql" and "db.sql".
func pathCandidates(p string) []string {
	p, ok := dataset.Normalize(p)
	if !ok {
		return nil
	}
	p = strings.ReplaceAll(p, "\\", "/")

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	segments := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	for i := range segments {
		prefix := strings.Join(segments[:i+1], "/")
		add("/" + prefix)
		add(prefix)
		add("/" + prefix + "/")
		add(prefix + "/")
	}

	if base := path.Base("/" + p); base != "/" && base != "." {
		add(base)
	}

	return out
}
