// Package detect translates the signals of every detector into candidates.
//
// Adapters are pure: they never touch the registry. The engine normalizes,
// stamps and merges what they return.
package detect

import (
	"net/url"
	"strings"

	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/message"
	"github.com/vidscout/vidscout/normalize"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

// Network adapts a response seen by the network interceptor.
func Network(m message.ObservedResponse) (registry.Candidate, bool) {
	if m.URL == "" || normalize.Ignored(m.URL) {
		return registry.Candidate{}, false
	}

	contentType := m.ContentType.OrEmpty()

	return registry.Candidate{
		URL:         m.URL,
		Size:        max(m.Size.OrEmpty(), 0),
		ContentType: contentType,
		Source:      source.WebRequest,
		IsPlaylist:  media.IsHLS(m.URL, contentType),
	}, true
}

// Raw adapts a candidate reported from inside the page. Unknown tags are
// demoted to dom.
func Raw(m message.RawCandidate) (registry.Candidate, bool) {
	u := resolve(m.PageURL.OrEmpty(), m.URL)
	if u == "" || normalize.Ignored(u) {
		return registry.Candidate{}, false
	}

	tag := source.Tag(m.Source)
	if !source.Known(tag) {
		tag = source.DOM
	}

	return registry.Candidate{
		URL:        u,
		Quality:    m.Quality.OrEmpty(),
		Title:      strings.TrimSpace(m.Title.OrEmpty()),
		Source:     tag,
		IsPlaylist: m.IsPlaylist.OrEmpty() || media.IsHLS(u, ""),
	}, true
}

// DOM adapts a media element record. Elements that are both visible and
// playing are the strongest DOM signal.
func DOM(m message.DOMRecord) (registry.Candidate, bool) {
	u := resolve(m.PageURL.OrEmpty(), m.URL)
	if u == "" || normalize.Ignored(u) {
		return registry.Candidate{}, false
	}

	tag := source.DOM
	if m.Visible && m.Playing {
		tag = source.DOMPlaying
	}

	return registry.Candidate{
		URL:        u,
		Title:      strings.TrimSpace(m.Title.OrEmpty()),
		Source:     tag,
		IsPlaylist: media.IsHLS(u, ""),
	}, true
}

// IsManifest reports whether a candidate should be expanded into variants.
func IsManifest(c registry.Candidate) bool {
	return c.IsPlaylist || media.IsHLS(c.URL, c.ContentType)
}

// resolve makes ref absolute against base when ref is relative and base is a
// usable page URL. Otherwise ref is returned trimmed.
func resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == "" || normalize.Ignored(ref) {
		return ref
	}

	if _, ok := normalize.Absolute(ref); ok {
		return ref
	}

	b, ok := normalize.Absolute(base)
	if !ok {
		return ref
	}

	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return b.ResolveReference(r).String()
}
