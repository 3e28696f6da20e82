package custom

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/registry"
)

// Set is a collection of loaded extractors.
type Set []*Extractor

// Extract runs every extractor that matches pageURL. Script failures are
// logged and yield nothing.
func (s Set) Extract(pageURL, body string) []registry.Candidate {
	var candidates []registry.Candidate
	for _, ex := range s {
		if !ex.Match(pageURL) {
			continue
		}

		found, err := ex.Extract(pageURL, body)
		if err != nil {
			log.Debugf("extractor %s on %s: %s", ex.Name(), pageURL, err)
			continue
		}

		candidates = append(candidates, found...)
	}
	return candidates
}

// Find returns the extractor whose name best matches name.
func (s Set) Find(name string) (*Extractor, bool) {
	if ex, ok := lo.Find(s, func(ex *Extractor) bool { return ex.Name() == name }); ok {
		return ex, true
	}

	names := lo.Map(s, func(ex *Extractor, _ int) string { return ex.Name() })
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return nil, false
	}

	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool { return a.Distance < b.Distance })
	return s[best.OriginalIndex], true
}

// Names lists the extractor names.
func (s Set) Names() []string {
	return lo.Map(s, func(ex *Extractor, _ int) string { return ex.Name() })
}

// Close releases every extractor.
func (s Set) Close() {
	lo.ForEach(s, func(ex *Extractor, _ int) { ex.Close() })
}
