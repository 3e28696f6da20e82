// Package source defines the provenance tags detectors stamp on candidates and
// the priority table used to weigh them.
package source

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Tag identifies which detector produced a candidate.
type Tag string

// Per-site structured parsers.
const (
	Instagram Tag = "instagram"
	Twitter   Tag = "twitter"
	TikTok    Tag = "tiktok"
	Facebook  Tag = "facebook"
	Reddit    Tag = "reddit"
	Vimeo     Tag = "vimeo"
	// Site is used by per-site extractors without a dedicated tag.
	Site Tag = "site"
)

// Generic detectors, from most to least trusted.
const (
	// Platform marks URLs recognized as direct-play platform pages.
	Platform   Tag = "platform"
	JSONLD     Tag = "jsonld"
	HLS        Tag = "hls"
	Meta       Tag = "meta"
	DOMPlaying Tag = "dom-playing"
	DOM        Tag = "dom"
	Script     Tag = "script"
	WebRequest Tag = "webRequest"
)

// Priority levels.
const (
	SiteParser = 100
	Structured = 80
	Manifest   = 70
	MetaTag    = 60
	Playing    = 50
	Element    = 40
	Inline     = 30
	Network    = 10
)

var priorities = map[Tag]int{
	Instagram:  SiteParser,
	Twitter:    SiteParser,
	TikTok:     SiteParser,
	Facebook:   SiteParser,
	Reddit:     SiteParser,
	Vimeo:      SiteParser,
	Site:       SiteParser,
	Platform:   SiteParser,
	JSONLD:     Structured,
	HLS:        Manifest,
	Meta:       MetaTag,
	DOMPlaying: Playing,
	DOM:        Element,
	Script:     Inline,
	WebRequest: Network,
}

// Priority returns the trust weight of a tag. Unknown tags weigh 0.
func Priority(t Tag) int {
	return priorities[t]
}

// Known reports whether t is part of the table.
func Known(t Tag) bool {
	_, ok := priorities[t]
	return ok
}

// All returns every known tag, highest priority first, ties by name.
func All() []Tag {
	tags := lo.Keys(priorities)
	slices.SortFunc(tags, func(a, b Tag) int {
		if d := Priority(b) - Priority(a); d != 0 {
			return d
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return tags
}

// Higher reports whether a should replace b as a candidate's provenance.
// Equal priorities resolve to the lexically smaller tag so the outcome does not
// depend on arrival order.
func Higher(a, b Tag) bool {
	pa, pb := Priority(a), Priority(b)
	if pa != pb {
		return pa > pb
	}
	return a < b
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return string(t)
}
