// Package normalize canonicalizes candidate URLs so the same resource collapses
// to one registry key.
package normalize

import (
	"net/url"
	"strings"
)

// byteRangeParams are stripped from every URL. Players request ranges of the
// same file under different values.
var byteRangeParams = []string{"bytestart", "byteend"}

// URL removes byte-range query parameters and a dangling "?" left behind.
// Scheme, host, path, fragment and every other parameter are preserved verbatim,
// in their original order. Input that does not parse is returned unchanged.
func URL(raw string) string {
	if _, err := url.Parse(raw); err != nil {
		return raw
	}

	base, fragment, hasFragment := strings.Cut(raw, "#")
	base, query, hasQuery := strings.Cut(base, "?")
	if !hasQuery {
		return raw
	}

	var removed bool
	kept := make([]string, 0, strings.Count(query, "&")+1)
	for _, pair := range strings.Split(query, "&") {
		if isByteRange(pair) {
			removed = true
			continue
		}
		if pair != "" {
			kept = append(kept, pair)
		}
	}

	if !removed {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	b.WriteString(base)
	if len(kept) > 0 {
		b.WriteByte('?')
		b.WriteString(strings.Join(kept, "&"))
	}
	if hasFragment {
		b.WriteByte('#')
		b.WriteString(fragment)
	}

	return b.String()
}

func isByteRange(pair string) bool {
	name, _, _ := strings.Cut(pair, "=")
	for _, p := range byteRangeParams {
		if strings.EqualFold(name, p) {
			return true
		}
	}
	return false
}

// Ignored reports whether a URL must never be stored: empty, blob: or data:.
func Ignored(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	return s == "" || strings.HasPrefix(s, "blob:") || strings.HasPrefix(s, "data:")
}

// Absolute reports whether raw is a syntactically valid absolute http(s) URL.
func Absolute(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u, true
	}
	return nil, false
}
