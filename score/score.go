// Package score ranks playable candidates.
package score

import (
	"regexp"

	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/source"
)

// Input is everything the scorer looks at.
type Input struct {
	URL           string
	Size          int64
	Source        source.Tag
	Quality       string
	LowConfidence bool
}

const (
	base = 10

	// source priority is multiplied so that provenance dominates every other bonus
	priorityWeight = 10

	directBonus   = 50
	manifestBonus = 30

	hdKeywordBonus = 5

	lowConfidencePenalty = 50
)

type tier struct {
	min   int64
	bonus int
}

// Evaluated from the largest threshold down; the first hit wins.
var (
	sizeTiers = []tier{
		{min: 50 << 20, bonus: 40},
		{min: 10 << 20, bonus: 25},
		{min: 1 << 20, bonus: 10},
	}

	qualityTiers = []tier{
		{min: 1080, bonus: 40},
		{min: 720, bonus: 25},
		{min: 480, bonus: 10},
	}
)

var hdKeyword = regexp.MustCompile(`(?i)(^|[^a-z0-9])(hd|fhd|uhd|4k|1080p?|720p?|2160p?)([^a-z0-9]|$)`)

// Scorer computes relevance scores. The zero value is ready to use.
type Scorer struct{}

// New returns a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score returns the relevance of a candidate. Identical inputs always yield
// identical scores.
func (*Scorer) Score(in Input) int {
	s := base + source.Priority(in.Source)*priorityWeight

	ext := media.Extension(in.URL)
	switch {
	case media.IsDirectExtension(ext):
		s += directBonus
	case media.IsManifestExtension(ext):
		s += manifestBonus
	}

	s += bonus(sizeTiers, in.Size)

	if in.Quality != "" {
		s += bonus(qualityTiers, int64(media.ParseQuality(in.Quality)))
	} else if hdKeyword.MatchString(in.URL) {
		s += hdKeywordBonus
	}

	if in.LowConfidence {
		s -= lowConfidencePenalty
	}

	return s
}

func bonus(tiers []tier, v int64) int {
	for _, t := range tiers {
		if v >= t.min {
			return t.bonus
		}
	}
	return 0
}
