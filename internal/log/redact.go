package log

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Redacted replaces any attribute value considered sensitive.
const Redacted = "***REDACTED***"

// secretKeys are attribute keys whose values are always masked.
// Keys are compared after lower-casing.
var secretKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"api_key":             true,
	"apikey":              true,
	"api-key":             true,
	"access_token":        true,
	"refresh_token":       true,
	"client_secret":       true,
	"private_key":         true,
	"session":             true,
	"session_id":          true,
	"dsn":                 true,
}

// secretKeyFragments mask any key containing them. Bare "key" is left out:
// it would mask "dataset_key", "primary_key" and similar.
var secretKeyFragments = []string{
	"password", "passwd", "secret", "token", "credential", "private",
}

// secretValues are patterns for values that are credentials regardless of
// the key they are logged under. Lookup inputs are arbitrary strings from
// leak reports, so these matter more here than key names do.
var secretValues = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// HTTP auth schemes
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),
	// AWS access key id
	regexp.MustCompile(`^(AKIA|ASIA)[0-9A-Z]{16}$`),
	// GitHub tokens
	regexp.MustCompile(`^gh[pousr]_[A-Za-z0-9]{36,}$`),
	// Slack tokens
	regexp.MustCompile(`^xox[abprs]-[A-Za-z0-9-]{10,}$`),
	// Stripe keys
	regexp.MustCompile(`^(sk|rk)_(live|test)_[A-Za-z0-9]{16,}$`),
	// PEM private keys
	regexp.MustCompile(`(?i)-----BEGIN[A-Z ]*PRIVATE KEY-----`),
	// Credentials embedded in a URL
	regexp.MustCompile(`^[a-z][a-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`),
}

// RedactHandler wraps an slog.Handler and masks sensitive attribute values
// before delegating. It works with any handler, so the text and JSON
// loggers share the same redaction rules.
type RedactHandler struct {
	next slog.Handler
}

// NewRedactHandler wraps next. A nil next uses slog.Default().Handler().
func NewRedactHandler(next slog.Handler) *RedactHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &RedactHandler{next: next}
}

// Enabled delegates to the wrapped handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle copies the record with every attribute redacted.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs redacts attrs once, up front.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &RedactHandler{next: h.next.WithAttrs(clean)}
}

// WithGroup returns a handler that nests subsequent attributes under name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, ga := range group {
			clean[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	if IsSecretKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}

	if a.Value.Kind() == slog.KindString && IsSecretValue(a.Value.String()) {
		return slog.String(a.Key, Redacted)
	}

	return a
}

// IsSecretKey reports whether values logged under key must be masked.
func IsSecretKey(key string) bool {
	k := strings.ToLower(key)
	if secretKeys[k] {
		return true
	}
	for _, frag := range secretKeyFragments {
		if strings.Contains(k, frag) {
			return true
		}
	}
	return false
}

// IsSecretValue reports whether value looks like a credential.
func IsSecretValue(value string) bool {
	v := strings.TrimSpace(value)
	for _, re := range secretValues {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
