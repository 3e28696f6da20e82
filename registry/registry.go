// Package registry keeps the merged candidates of every browsing context and
// answers ranked queries over them.
package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/vidscout/vidscout/classify"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/normalize"
	"github.com/vidscout/vidscout/score"
	"golang.org/x/exp/slices"
)

// Options configure a Registry.
type Options struct {
	// TTL is measured from FirstSeenAt. Zero disables expiry.
	TTL time.Duration
	// Limit caps query results when the caller passes limit <= 0.
	Limit int

	Classifier *classify.Classifier
	Scorer     *score.Scorer

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions match the reference deployment.
func DefaultOptions() Options {
	return Options{
		TTL:        10 * time.Minute,
		Limit:      5,
		Classifier: classify.New(classify.DefaultOptions()),
		Scorer:     score.New(),
		Now:        time.Now,
	}
}

// Generation identifies one lifetime of a context's contents. It changes on
// every Clear and Destroy. Zero means no context.
type Generation uint64

type bucket struct {
	mu         sync.Mutex
	gen        Generation
	dead       bool
	candidates map[string]*Candidate
}

// Registry is safe for concurrent use. Contexts never share entries.
type Registry struct {
	opts Options

	generations atomic.Uint64

	mu       sync.RWMutex
	contexts map[string]*bucket
}

// New returns an empty Registry. Missing options fall back to DefaultOptions.
func New(opts Options) *Registry {
	def := DefaultOptions()
	if opts.Limit <= 0 {
		opts.Limit = def.Limit
	}
	if opts.Classifier == nil {
		opts.Classifier = def.Classifier
	}
	if opts.Scorer == nil {
		opts.Scorer = def.Scorer
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}

	return &Registry{
		opts:     opts,
		contexts: make(map[string]*bucket),
	}
}

func (r *Registry) bucket(contextID string, create bool) *bucket {
	r.mu.RLock()
	b, ok := r.contexts[contextID]
	r.mu.RUnlock()
	if ok || !create {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok = r.contexts[contextID]; !ok {
		b = &bucket{
			gen:        r.nextGeneration(),
			candidates: make(map[string]*Candidate),
		}
		r.contexts[contextID] = b
	}
	return b
}

func (r *Registry) nextGeneration() Generation {
	return Generation(r.generations.Add(1))
}

// lock returns the live bucket of a context with its mutex held. A bucket
// destroyed between lookup and locking is retried so writes never land in a
// detached map.
func (r *Registry) lock(contextID string) *bucket {
	for {
		b := r.bucket(contextID, true)
		b.mu.Lock()
		if !b.dead {
			return b
		}
		b.mu.Unlock()
	}
}

// Merge inserts c into the context or folds it into the entry with the same
// normalized URL. Records without a context or a storable URL are dropped.
// It returns the generation c was stored under, zero when dropped.
func (r *Registry) Merge(contextID string, c Candidate) Generation {
	if contextID == "" || normalize.Ignored(c.URL) {
		return 0
	}

	b := r.lock(contextID)
	defer b.mu.Unlock()

	r.store(contextID, b, c)
	return b.gen
}

// MergeIf merges c only while the context is still at generation gen, so work
// started before a Clear or Destroy cannot repopulate the context.
func (r *Registry) MergeIf(contextID string, gen Generation, c Candidate) bool {
	if contextID == "" || gen == 0 || normalize.Ignored(c.URL) {
		return false
	}

	b := r.bucket(contextID, false)
	if b == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dead || b.gen != gen {
		return false
	}

	r.store(contextID, b, c)
	return true
}

// Generation returns the current generation of a context, zero if unknown.
func (r *Registry) Generation(contextID string) Generation {
	b := r.bucket(contextID, false)
	if b == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen
}

// store requires b.mu.
func (r *Registry) store(contextID string, b *bucket, c Candidate) {
	c.URL = normalize.URL(c.URL)
	if c.PlayURL != "" {
		c.PlayURL = normalize.URL(c.PlayURL)
	}
	c.Score = 0

	existing, ok := b.candidates[c.URL]
	if !ok {
		c.FirstSeenAt = r.opts.Now()
		b.candidates[c.URL] = &c
		log.WithContext(contextID).Debugf("new candidate %s from %s", c.URL, c.Source)
		return
	}

	existing.absorb(c)
}

// Query drops expired entries, then returns up to limit playable candidates,
// best first. An unknown context yields an empty slice.
func (r *Registry) Query(contextID string, limit int) []Candidate {
	if limit <= 0 {
		limit = r.opts.Limit
	}

	b := r.bucket(contextID, false)
	if b == nil {
		return []Candidate{}
	}

	now := r.opts.Now()

	b.mu.Lock()
	ranked := make([]Candidate, 0, len(b.candidates))
	for u, c := range b.candidates {
		if r.expired(c, now) {
			delete(b.candidates, u)
			continue
		}

		if !r.opts.Classifier.IsPlayable(c.URL, c.ContentType, c.Size, c.Source) {
			continue
		}

		view := *c
		view.Score = r.opts.Scorer.Score(score.Input{
			URL:           c.URL,
			Size:          c.Size,
			Source:        c.Source,
			Quality:       c.Quality,
			LowConfidence: c.LowConfidence,
		})
		ranked = append(ranked, view)
	}
	b.mu.Unlock()

	slices.SortFunc(ranked, compare)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (r *Registry) expired(c *Candidate, now time.Time) bool {
	return r.opts.TTL > 0 && !now.Before(c.FirstSeenAt.Add(r.opts.TTL))
}

// compare orders by score, then most recently seen, then URL.
func compare(a, b Candidate) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if !a.FirstSeenAt.Equal(b.FirstSeenAt) {
		if a.FirstSeenAt.After(b.FirstSeenAt) {
			return -1
		}
		return 1
	}
	switch {
	case a.URL < b.URL:
		return -1
	case a.URL > b.URL:
		return 1
	}
	return 0
}

// Clear empties a context but keeps its slot.
func (r *Registry) Clear(contextID string) {
	b := r.bucket(contextID, false)
	if b == nil {
		return
	}

	b.mu.Lock()
	clear(b.candidates)
	b.gen = r.nextGeneration()
	b.mu.Unlock()
}

// Destroy removes a context entirely. A later Merge starts a fresh context.
func (r *Registry) Destroy(contextID string) {
	r.mu.Lock()
	b, ok := r.contexts[contextID]
	delete(r.contexts, contextID)
	r.mu.Unlock()

	if !ok {
		return
	}

	b.mu.Lock()
	b.dead = true
	clear(b.candidates)
	b.mu.Unlock()
}

// Contexts lists the known context ids, sorted.
func (r *Registry) Contexts() []string {
	r.mu.RLock()
	ids := lo.Keys(r.contexts)
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Len counts the stored entries of a context, expired ones included until the next Query.
func (r *Registry) Len(contextID string) int {
	b := r.bucket(contextID, false)
	if b == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.candidates)
}
