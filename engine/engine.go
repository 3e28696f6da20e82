// Package engine routes boundary messages to the detectors and the registry,
// and runs manifest expansion in the background.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vidscout/vidscout/detect"
	"github.com/vidscout/vidscout/detect/custom"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/manifest"
	"github.com/vidscout/vidscout/message"
	"github.com/vidscout/vidscout/navigation"
	"github.com/vidscout/vidscout/normalize"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

// Fetcher downloads manifest bodies.
type Fetcher interface {
	Fetch(ctx context.Context, manifestURL string, headers map[string]string) (string, error)
}

// Options wire an Engine. Registry, Fetcher and Embedder are required.
type Options struct {
	Registry   *registry.Registry
	Fetcher    Fetcher
	Embedder   *detect.Embedder
	Extractors custom.Set

	// VariantLimit caps how many variants of one master are merged.
	VariantLimit int
	// PollInterval paces the navigation watcher.
	PollInterval time.Duration
}

// Engine is safe for concurrent use.
type Engine struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	registry   *registry.Registry
	fetcher    Fetcher
	embedder   *detect.Embedder
	extractors custom.Set

	variantLimit int

	// contextID, generation and manifest URL of the expansions in flight
	inflight sync.Map

	board   *navigation.Board
	watcher *navigation.Watcher
}

// New returns an Engine whose background work stops with ctx.
func New(ctx context.Context, opts Options) *Engine {
	ctx, cancel := context.WithCancel(ctx)

	if opts.VariantLimit <= 0 {
		opts.VariantLimit = 3
	}

	e := &Engine{
		ctx:          ctx,
		cancel:       cancel,
		registry:     opts.Registry,
		fetcher:      opts.Fetcher,
		embedder:     opts.Embedder,
		extractors:   opts.Extractors,
		variantLimit: opts.VariantLimit,
		board:        navigation.NewBoard(),
	}

	e.watcher = navigation.NewWatcher(e.board, opts.PollInterval, e.registry.Clear)
	return e
}

// Registry returns the underlying registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Watcher returns the navigation watcher fed by location messages.
func (e *Engine) Watcher() *navigation.Watcher {
	return e.watcher
}

// Handle processes one decoded message. Only queries produce a reply.
// Records missing a context are ignored.
func (e *Engine) Handle(msg any) (any, error) {
	switch m := msg.(type) {
	case *message.ObservedResponse:
		return e.Handle(*m)
	case *message.RawCandidate:
		return e.Handle(*m)
	case *message.DOMRecord:
		return e.Handle(*m)
	case *message.PageSnapshot:
		return e.Handle(*m)
	case *message.EmbeddedData:
		return e.Handle(*m)
	case *message.NavigationChanged:
		return e.Handle(*m)
	case *message.ContextClosed:
		return e.Handle(*m)
	case *message.Location:
		return e.Handle(*m)
	case *message.Query:
		return e.Handle(*m)

	case message.ObservedResponse:
		if c, ok := detect.Network(m); ok && m.ContextID != "" {
			e.merge(m.ContextID, c)
		}
	case message.RawCandidate:
		if c, ok := detect.Raw(m); ok && m.ContextID != "" {
			e.mergeFromPage(m.ContextID, m.PageURL.OrEmpty(), c)
		}
	case message.DOMRecord:
		if c, ok := detect.DOM(m); ok && m.ContextID != "" {
			e.mergeFromPage(m.ContextID, m.PageURL.OrEmpty(), c)
		}
	case message.PageSnapshot:
		if m.ContextID == "" {
			break
		}

		found, err := detect.Page(m.PageURL, m.HTML)
		if err != nil {
			log.WithContext(m.ContextID).Debug(err)
		}
		found = append(found, e.extractors.Extract(m.PageURL, m.HTML)...)
		for _, c := range found {
			e.mergeFromPage(m.ContextID, m.PageURL, c)
		}
	case message.EmbeddedData:
		if m.ContextID == "" {
			break
		}

		found := detect.Structured(m.PageURL, m.Body)
		found = append(found, e.extractors.Extract(m.PageURL, m.Body)...)
		for _, c := range found {
			e.mergeFromPage(m.ContextID, m.PageURL, c)
		}
	case message.NavigationChanged:
		e.registry.Clear(m.ContextID)
	case message.ContextClosed:
		e.registry.Destroy(m.ContextID)
		e.board.Forget(m.ContextID)
	case message.Location:
		e.locate(m.ContextID, m.URL)
	case message.Query:
		return &message.RankedCandidates{
			ContextID: m.ContextID,
			Items:     e.registry.Query(m.ContextID, m.Limit.OrElse(0)),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported message %T", msg)
	}

	return nil, nil
}

// locate clears a context as soon as it reports a new document, so nothing the
// new page sends afterwards is lost to a later watcher poll.
func (e *Engine) locate(contextID, rawURL string) {
	if contextID == "" {
		return
	}

	if prev, ok := e.board.Swap(contextID, rawURL); ok && !navigation.SameDocument(prev, rawURL) {
		e.registry.Clear(contextID)
		log.WithContext(contextID).Debugf("navigated to %s", rawURL)
	}
	e.watcher.Observe(contextID, rawURL)
}

func (e *Engine) mergeFromPage(contextID, pageURL string, c registry.Candidate) {
	if pageURL == "" {
		pageURL, _ = e.board.Get(contextID)
	}

	e.merge(contextID, e.embedder.Apply(c, pageURL))
}

// merge stores c under its plain URL and starts an expansion when it is a manifest.
func (e *Engine) merge(contextID string, c registry.Candidate) {
	c = e.embedder.Unwrap(c)

	gen := e.registry.Merge(contextID, c)
	if gen != 0 && detect.IsManifest(c) {
		c.URL = normalize.URL(c.URL)
		e.expand(contextID, gen, c)
	}
}

// expand fetches and parses a manifest without blocking the caller. Variants
// go straight to the registry so they never expand again, and only while the
// context is still at generation gen. Failures are logged and dropped.
func (e *Engine) expand(contextID string, gen registry.Generation, c registry.Candidate) {
	key := fmt.Sprintf("%s\x00%d\x00%s", contextID, gen, c.URL)
	if _, busy := e.inflight.LoadOrStore(key, struct{}{}); busy {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.inflight.Delete(key)

		logger := log.WithContext(contextID)

		headers, _ := e.embedder.Headers(c.PlayURL)
		body, err := e.fetcher.Fetch(e.ctx, c.URL, headers)
		if err != nil {
			logger.Debugf("expand %s: %s", c.URL, err)
			return
		}

		variants := manifest.Parse(body, c.URL)
		if len(variants) == 0 {
			logger.Debugf("expand %s: not a playlist", c.URL)
			return
		}

		if len(variants) > e.variantLimit {
			variants = variants[:e.variantLimit]
		}

		for _, v := range variants {
			variant := registry.Candidate{
				URL:           v.URL,
				Quality:       v.Quality,
				Title:         c.Title,
				Source:        source.HLS,
				IsPlaylist:    true,
				LowConfidence: c.LowConfidence,
			}

			if referer, ok := headers["Referer"]; ok {
				variant = e.embedder.Apply(variant, referer)
			}

			if !e.registry.MergeIf(contextID, gen, variant) {
				logger.Debugf("expand %s: context changed, dropping variants", c.URL)
				return
			}
		}

		logger.Debugf("expanded %s into %d variants", c.URL, len(variants))
	}()
}

// Wait blocks until every expansion started so far is done.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close cancels pending expansions and waits for them.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}
