package osint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/osintdata/internal/dataset"
)

// newTestChecker loads a small but complete dataset directory.
func newTestChecker(t *testing.T) *Checker {
	t.Helper()

	files := map[string]string{
		"sensitive_files_config_backup_creds_keys.txt": ".env\n/.git/config\nwp-config.php.bak\nid_rsa\n",
		"disposable_email_blocklist_deduped.txt":       "mailinator.com\nguerrillamail.com\n",
		"free-email-domain.txt":                        "gmail.com\nyahoo.co.uk\nmail.ru\n",
		"breached_org_domains.txt":                     "linkedin.com\nadobe.com\nbücher.de\n",
		"high_signal_admin_panels.txt":                 "/wp-admin\nphpmyadmin\n/admin/login\n",
		"cloud_indicators.json": `{
			"aws": ["amazonaws.com", {"cdn": ["cloudfront.net"]}],
			"aws-s3": ["s3.amazonaws.com"],
			"gcp": ["googleapis.com", "appspot.com"],
			"meta": 1
		}`,
	}

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	ds, err := dataset.Load(dir, dataset.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("failed to load datasets: %v", err)
	}
	return NewChecker(ds)
}

// TestCheckerDomains tests the domain membership helpers.
func TestCheckerDomains(t *testing.T) {
	t.Parallel()

	c := newTestChecker(t)

	tests := []struct {
		name  string
		check func(string) bool
		input string
		want  bool
	}{
		{name: "disposable exact", check: c.IsDisposableDomain, input: "mailinator.com", want: true},
		{name: "disposable email", check: c.IsDisposableDomain, input: "Someone@MAILINATOR.com", want: true},
		{name: "disposable subdomain", check: c.IsDisposableDomain, input: "inbox.eu.mailinator.com", want: true},
		{name: "disposable trailing dot", check: c.IsDisposableDomain, input: "mailinator.com.", want: true},
		{name: "disposable with port", check: c.IsDisposableDomain, input: "mailinator.com:25", want: true},
		{name: "disposable lookalike", check: c.IsDisposableDomain, input: "notmailinator.com", want: false},
		{name: "free multi-label suffix", check: c.IsFreeEmailDomain, input: "jo@yahoo.co.uk", want: true},
		{name: "free does not climb past registrable domain", check: c.IsFreeEmailDomain, input: "co.uk", want: false},
		{name: "free other", check: c.IsFreeEmailDomain, input: "a@example.org", want: false},
		{name: "breached exact", check: c.IsBreachedOrgDomain, input: "security@adobe.com", want: true},
		{name: "breached unicode entry via unicode input", check: c.IsBreachedOrgDomain, input: "BÜCHER.de", want: true},
		{name: "blank input", check: c.IsBreachedOrgDomain, input: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.check(tt.input); got != tt.want {
				t.Errorf("check(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestCheckerPaths tests the path membership helpers.
func TestCheckerPaths(t *testing.T) {
	t.Parallel()

	c := newTestChecker(t)

	tests := []struct {
		name  string
		check func(string) bool
		input string
		want  bool
	}{
		{name: "dotenv at root", check: c.IsSensitiveFile, input: "/.env", want: true},
		{name: "dotenv in subdirectory by base name", check: c.IsSensitiveFile, input: "/app/config/.ENV", want: true},
		{name: "git config", check: c.IsSensitiveFile, input: ".git/config", want: true},
		{name: "sensitive file in URL", check: c.IsSensitiveFile, input: "https://example.com/backup/wp-config.php.bak?x=1", want: true},
		{name: "windows path", check: c.IsSensitiveFile, input: `C:\Users\me\.ssh\id_rsa`, want: true},
		{name: "ordinary file", check: c.IsSensitiveFile, input: "/index.html", want: false},
		{name: "admin exact", check: c.IsAdminPath, input: "/wp-admin", want: true},
		{name: "admin trailing slash", check: c.IsAdminPath, input: "/wp-admin/", want: true},
		{name: "admin below panel", check: c.IsAdminPath, input: "/wp-admin/options.php", want: true},
		{name: "admin listed without slash", check: c.IsAdminPath, input: "/phpMyAdmin/index.php", want: true},
		{name: "admin multi-segment", check: c.IsAdminPath, input: "https://x.test/admin/login", want: true},
		{name: "admin parent of listed path", check: c.IsAdminPath, input: "/admin", want: false},
		{name: "admin unrelated", check: c.IsAdminPath, input: "/blog/wp-admin-tips", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.check(tt.input); got != tt.want {
				t.Errorf("check(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestCheckerCloudProvider tests generic matching against cloud_fingerprints.
func TestCheckerCloudProvider(t *testing.T) {
	t.Parallel()

	c := newTestChecker(t)

	tests := []struct {
		host     string
		want     string
		wantOK   bool
		scenario string
	}{
		{host: "d111.cloudfront.net", want: "aws", wantOK: true, scenario: "nested indicator"},
		{host: "bucket.s3.amazonaws.com", want: "aws-s3", wantOK: true, scenario: "longest indicator wins"},
		{host: "ec2-1-2-3-4.compute.amazonaws.com", want: "aws", wantOK: true, scenario: "suffix indicator"},
		{host: "STORAGE.GoogleAPIs.com", want: "gcp", wantOK: true, scenario: "case-insensitive"},
		{host: "example.com", want: "", wantOK: false, scenario: "no match"},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			got, ok := c.CloudProvider(tt.host)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CloudProvider(%q) = (%q, %v), want (%q, %v)", tt.host, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestCheckerClassify tests kind detection and labelling.
func TestCheckerClassify(t *testing.T) {
	t.Parallel()

	c := newTestChecker(t)

	tests := []struct {
		input      string
		wantKind   InputKind
		wantLabels []Label
		wantDomain string
		wantType   string
	}{
		{
			input:      "throwaway@mailinator.com",
			wantKind:   KindEmail,
			wantLabels: []Label{LabelDisposableEmail},
			wantDomain: "mailinator.com",
			wantType:   DomainTypeDisposable,
		},
		{
			input:      "someone@gmail.com",
			wantKind:   KindEmail,
			wantLabels: []Label{LabelFreeEmail},
			wantDomain: "gmail.com",
			wantType:   DomainTypeFree,
		},
		{
			input:      "https://mybucket.s3.amazonaws.com/.env",
			wantKind:   KindURL,
			wantLabels: []Label{LabelCloudHosted, LabelSensitiveFile},
		},
		{
			input:      "https://shop.adobe.com/wp-admin/",
			wantKind:   KindURL,
			wantLabels: []Label{LabelBreachedOrg, LabelAdminPanel},
			wantDomain: "adobe.com",
			wantType:   DomainTypeBreachedOrg,
		},
		{
			input:      "/.git/config",
			wantKind:   KindPath,
			wantLabels: []Label{LabelSensitiveFile},
		},
		{
			input:      "wp-config.php.bak",
			wantKind:   KindPath,
			wantLabels: []Label{LabelSensitiveFile},
		},
		{
			input:      "linkedin.com",
			wantKind:   KindDomain,
			wantLabels: []Label{LabelBreachedOrg},
			wantDomain: "linkedin.com",
			wantType:   DomainTypeBreachedOrg,
		},
		{
			input:      "example.org",
			wantKind:   KindDomain,
			wantLabels: []Label{LabelNone},
		},
		{
			input:      "  ",
			wantKind:   KindEmpty,
			wantLabels: []Label{LabelNone},
		},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			t.Parallel()

			res := c.Classify(tt.input)
			if res.Input != tt.input {
				t.Errorf("expected input to be echoed, got %q", res.Input)
			}
			if res.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, res.Kind)
			}
			if !slices.Equal(res.Labels, tt.wantLabels) {
				t.Errorf("expected labels %v, got %v", tt.wantLabels, res.Labels)
			}
			if res.Domain != tt.wantDomain || res.DomainType != tt.wantType {
				t.Errorf("expected domain %q (%s), got %q (%s)", tt.wantDomain, tt.wantType, res.Domain, res.DomainType)
			}
			if res.HasSignal() != !slices.Equal(tt.wantLabels, []Label{LabelNone}) {
				t.Errorf("unexpected HasSignal %v for labels %v", res.HasSignal(), res.Labels)
			}
		})
	}
}

// TestCheckerClassifyAll tests concurrent batch classification.
func TestCheckerClassifyAll(t *testing.T) {
	t.Parallel()

	c := newTestChecker(t)

	t.Run("preserves input order", func(t *testing.T) {
		t.Parallel()

		inputs := make([]string, 0, 200)
		for i := range 100 {
			inputs = append(inputs, fmt.Sprintf("user%d@mailinator.com", i), fmt.Sprintf("/wp-admin/site%d", i))
		}

		results, err := c.ClassifyAll(context.Background(), inputs, 8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(inputs) {
			t.Fatalf("expected %d results, got %d", len(inputs), len(results))
		}
		for i, r := range results {
			if r.Input != inputs[i] {
				t.Fatalf("result %d is for %q, expected %q", i, r.Input, inputs[i])
			}
			want := LabelDisposableEmail
			if i%2 == 1 {
				want = LabelAdminPanel
			}
			if !slices.Contains(r.Labels, want) {
				t.Errorf("%q: expected %s, got %v", r.Input, want, r.Labels)
			}
		}
	})

	t.Run("non-positive concurrency runs serially", func(t *testing.T) {
		t.Parallel()

		results, err := c.ClassifyAll(context.Background(), []string{"a@gmail.com"}, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].DomainType != DomainTypeFree {
			t.Errorf("unexpected results %+v", results)
		}
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := c.ClassifyAll(ctx, []string{"a@gmail.com", "b@gmail.com"}, 2)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if results != nil {
			t.Errorf("expected nil results, got %v", results)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		results, err := c.ClassifyAll(context.Background(), nil, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}

// TestPathCandidates tests candidate generation.
func TestPathCandidates(t *testing.T) {
	t.Parallel()

	got := pathCandidates("/Backup/db.sql")
	want := []string{"/backup", "backup", "/backup/", "backup/", "/backup/db.sql", "backup/db.sql", "/backup/db.sql/", "backup/db.sql/", "db.sql"}
	if !slices.Equal(got, want) {
		t.Errorf("pathCandidates = %v, want %v", got, want)
	}

	if pathCandidates("  ") != nil {
		t.Error("expected no candidates for blank input")
	}
}

// TestDomainCandidates tests parent-domain expansion.
func TestDomainCandidates(t *testing.T) {
	t.Parallel()

	got := domainCandidates("a.b.example.co.uk")
	want := []string{"a.b.example.co.uk", "b.example.co.uk", "example.co.uk"}
	if !slices.Equal(got, want) {
		t.Errorf("domainCandidates = %v, want %v", got, want)
	}

	idn := domainCandidates("shop.bücher.de")
	if !slices.Contains(idn, "bücher.de") || !slices.Contains(idn, "xn--bcher-kva.de") {
		t.Errorf("expected unicode and punycode forms, got %v", idn)
	}
}
