package detect

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/vidscout/vidscout/normalize"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

// DefaultHeaderParam is the query parameter that carries embedded request headers.
const DefaultHeaderParam = "__vsh"

// Embedder stamps the page's referer and origin onto candidate URLs before they
// leave the page, so a downstream fetcher can replay them.
type Embedder struct {
	param  string
	relays []*regexp.Regexp
}

// NewEmbedder compiles the relay patterns. An empty param falls back to DefaultHeaderParam.
func NewEmbedder(param string, relayPatterns []string) (*Embedder, error) {
	if param == "" {
		param = DefaultHeaderParam
	}

	relays := make([]*regexp.Regexp, 0, len(relayPatterns))
	for _, p := range relayPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("relay pattern %q: %w", p, err)
		}
		relays = append(relays, re)
	}

	return &Embedder{param: param, relays: relays}, nil
}

// Param returns the query parameter name used for embedding.
func (e *Embedder) Param() string {
	return e.param
}

// Relayed reports whether rawURL already goes through a known relay.
func (e *Embedder) Relayed(rawURL string) bool {
	return lo.SomeBy(e.relays, func(re *regexp.Regexp) bool {
		return re.MatchString(rawURL)
	})
}

// Embedded reports whether rawURL already carries embedded headers.
func (e *Embedder) Embedded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Query().Has(e.param)
}

type embeddedHeaders struct {
	Referer string `json:"referer"`
	Origin  string `json:"origin"`
}

// Unwrap moves a URL that already carries embedded headers into PlayURL and
// keys c on the plain URL, so both forms of one resource merge.
func (e *Embedder) Unwrap(c registry.Candidate) registry.Candidate {
	if !e.Embedded(c.URL) {
		return c
	}

	c.PlayURL = c.URL
	c.URL = e.Strip(c.URL)
	return c
}

// Apply returns c with the page's headers embedded into PlayURL. c.URL is
// never changed beyond Unwrap. Relayed URLs are marked low confidence instead.
// Relative, non-http and platform URLs are left alone, as is everything when
// pageURL is not absolute.
func (e *Embedder) Apply(c registry.Candidate, pageURL string) registry.Candidate {
	c = e.Unwrap(c)
	if c.PlayURL != "" {
		return c
	}

	if e.Relayed(c.URL) {
		c.LowConfidence = true
		return c
	}

	if c.Source == source.Platform {
		return c
	}

	if _, ok := normalize.Absolute(c.URL); !ok {
		return c
	}

	page, ok := normalize.Absolute(pageURL)
	if !ok {
		return c
	}

	headers, err := json.Marshal(embeddedHeaders{
		Referer: pageURL,
		Origin:  page.Scheme + "://" + page.Host,
	})
	if err != nil {
		return c
	}

	base, fragment, hasFragment := strings.Cut(c.URL, "#")

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
		if strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&") {
			sep = ""
		}
	}

	embedded := base + sep + e.param + "=" + url.QueryEscape(string(headers))
	if hasFragment {
		embedded += "#" + fragment
	}

	c.PlayURL = embedded
	return c
}

// Strip removes embedded headers from rawURL, for fetching it directly.
func (e *Embedder) Strip(rawURL string) string {
	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	base, query, ok := strings.Cut(base, "?")
	if !ok {
		return rawURL
	}

	prefix := e.param + "="
	kept := lo.Reject(strings.Split(query, "&"), func(pair string, _ int) bool {
		return pair == e.param || strings.HasPrefix(pair, prefix)
	})

	if len(kept) > 0 {
		base += "?" + strings.Join(kept, "&")
	}
	if hasFragment {
		base += "#" + fragment
	}
	return base
}

// Headers extracts the embedded referer and origin from rawURL.
func (e *Embedder) Headers(rawURL string) (map[string]string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}

	raw := u.Query().Get(e.param)
	if raw == "" {
		return nil, false
	}

	var h embeddedHeaders
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return nil, false
	}

	headers := make(map[string]string, 2)
	if h.Referer != "" {
		headers["Referer"] = h.Referer
	}
	if h.Origin != "" {
		headers["Origin"] = h.Origin
	}
	return headers, true
}
