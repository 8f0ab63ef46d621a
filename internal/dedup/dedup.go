// Cross-run deduplication. URLs are canonicalized before they ever reach a
// store, so two spellings of the same posting always collide.

package dedup

import (
	"context"
	"net/url"
	"strings"
)

// Store decides whether a posting URL has been processed before.
// InsertIfAbsent is the atomic check-and-claim; a false return means some
// earlier run (or this one) already owns the URL.
type Store interface {
	InsertIfAbsent(ctx context.Context, canonicalURL string) (bool, error)
	Exists(ctx context.Context, canonicalURL string) (bool, error)
}

// CanonicalURL normalizes a posting URL: https scheme, lowercase host,
// query and fragment stripped, trailing slash trimmed. Canonicalization is
// idempotent, so it commutes with itself no matter how often it is applied.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
