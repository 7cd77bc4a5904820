package frontier

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// Fingerprint computes the deduplication key of a URL.
//
// The key is a SHA-256 digest of the URL's canonical form, so two URLs
// that differ only in fragment, query parameter order, percent-encoding
// case, host case, a default port, or a trailing slash collide:
//
//	https://Example.com:443/a/?b=2&a=1#frag
//	https://example.com/a?a=1&b=2
//
// fingerprint identically. The function is pure and deterministic, which
// is what lets the seen-set survive a snapshot/restore cycle bit for bit.
func Fingerprint(u *url.URL) string {
	sum := sha256.Sum256([]byte(canonicalURL(u)))
	return hex.EncodeToString(sum[:])
}

// canonicalURL renders the canonical string form a fingerprint is
// computed from. The input URL is not modified.
func canonicalURL(u *url.URL) string {
	var b strings.Builder

	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	b.WriteString(canonicalHost(u))
	b.WriteString(canonicalPath(u))

	if query := canonicalQuery(u); query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}

	// Fragments never reach the server; they are dropped entirely.
	return b.String()
}

// canonicalHost lower-cases the host, converts internationalized names
// to their ASCII (punycode) form, and strips the scheme's default port.
func canonicalHost(u *url.URL) string {
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}

	port := u.Port()
	switch {
	case port == "":
		return host
	case port == "80" && strings.EqualFold(u.Scheme, "http"):
		return host
	case port == "443" && strings.EqualFold(u.Scheme, "https"):
		return host
	}
	return host + ":" + port
}

// canonicalPath re-encodes the path from its decoded form, which
// normalizes percent-encoding case ("%2f" and "%2F" become equal), and
// applies trailing-slash normalization: the empty path and "/" are the
// same resource, and "/a/" is treated as "/a".
func canonicalPath(u *url.URL) string {
	// EscapePath on the decoded path yields uppercase hex escapes and a
	// minimal escape set, independent of how the input was spelled.
	path := (&url.URL{Path: u.Path}).EscapedPath()

	if path == "" || path == "/" {
		return "/"
	}
	return strings.TrimSuffix(path, "/")
}

// canonicalQuery sorts query parameters by key and, within a key, by
// value, then re-encodes them. Decoding and re-encoding also normalizes
// percent-encoding case inside parameters.
func canonicalQuery(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}

	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		// An unparsable query still identifies the resource; use it as is.
		return u.RawQuery
	}
	for _, vs := range values {
		sort.Strings(vs)
	}

	// url.Values.Encode emits keys in sorted order.
	return values.Encode()
}
