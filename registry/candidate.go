package registry

import (
	"time"

	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/source"
)

// Candidate is one video resource observed in a browsing context.
type Candidate struct {
	// URL is normalized and identifies the candidate inside its context.
	URL         string     `json:"url" jsonschema:"description=Normalized candidate URL"`
	// PlayURL is URL with the page's request headers embedded, for relays that
	// must replay them. Empty when nothing was embedded.
	PlayURL     string     `json:"playUrl,omitempty" jsonschema:"description=Candidate URL with embedded referer and origin"`
	Size        int64      `json:"size,omitempty" jsonschema:"description=Declared size in bytes; 0 when unknown"`
	ContentType string     `json:"contentType,omitempty"`
	Quality     string     `json:"quality,omitempty" jsonschema:"example=720p"`
	Source      source.Tag `json:"source"`
	Title       string     `json:"title,omitempty"`
	IsPlaylist  bool       `json:"isPlaylist,omitempty"`
	// LowConfidence marks candidates already routed through a known relay.
	LowConfidence bool      `json:"lowConfidence,omitempty"`
	FirstSeenAt   time.Time `json:"firstSeenAt"`
	// Score is only populated on query results.
	Score int `json:"score,omitempty"`
}

// absorb folds other into c. Every rule is symmetric so merging the same set of
// observations in any order gives the same result (FirstSeenAt excepted).
func (c *Candidate) absorb(other Candidate) {
	if source.Higher(other.Source, c.Source) {
		c.Source = other.Source
	}

	c.Size = max(c.Size, other.Size)
	c.Quality = pickQuality(c.Quality, other.Quality)
	c.Title = pickText(c.Title, other.Title)
	c.PlayURL = pickText(c.PlayURL, other.PlayURL)
	c.ContentType = pickText(c.ContentType, other.ContentType)
	c.IsPlaylist = c.IsPlaylist || other.IsPlaylist
	c.LowConfidence = c.LowConfidence && other.LowConfidence
}

func pickQuality(a, b string) string {
	qa, qb := media.ParseQuality(a), media.ParseQuality(b)
	switch {
	case qa > qb:
		return a
	case qb > qa:
		return b
	default:
		return pickText(a, b)
	}
}

// pickText never drops a present value; between two, the longer then lexically
// smaller wins.
func pickText(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case len(a) != len(b):
		if len(a) > len(b) {
			return a
		}
		return b
	case a < b:
		return a
	default:
		return b
	}
}
