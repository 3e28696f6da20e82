// Package navigation detects top-level document changes by polling, for hosts
// that offer no reliable change notification.
package navigation

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Locator reports the current top-level URL of every live context.
type Locator interface {
	Locations() map[string]string
}

// Board is a Locator fed by location reports.
type Board struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewBoard returns an empty Board.
func NewBoard() *Board {
	return &Board{urls: make(map[string]string)}
}

// Set records the current URL of a context.
func (b *Board) Set(contextID, rawURL string) {
	if contextID == "" {
		return
	}

	b.mu.Lock()
	b.urls[contextID] = rawURL
	b.mu.Unlock()
}

// Swap records the current URL of a context and returns the one it replaced.
func (b *Board) Swap(contextID, rawURL string) (prev string, ok bool) {
	if contextID == "" {
		return "", false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok = b.urls[contextID]
	b.urls[contextID] = rawURL
	return prev, ok
}

// Get returns the last known URL of a context.
func (b *Board) Get(contextID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	u, ok := b.urls[contextID]
	return u, ok
}

// Forget drops a context.
func (b *Board) Forget(contextID string) {
	b.mu.Lock()
	delete(b.urls, contextID)
	b.mu.Unlock()
}

// Locations implements Locator.
func (b *Board) Locations() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return lo.Assign(b.urls)
}

// SameDocument reports whether two locations point at the same document,
// ignoring the fragment.
func SameDocument(a, b string) bool {
	return stripFragment(a) == stripFragment(b)
}

func stripFragment(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		u.Fragment = ""
		u.RawFragment = ""
		return u.String()
	}

	base, _, _ := strings.Cut(raw, "#")
	return base
}

// Watcher polls a Locator and calls OnChange for every context whose document
// changed since the previous poll. Contexts seen for the first time are only
// recorded. A missed tick only delays invalidation.
//
// onChange runs with the watcher locked and must not call back into it.
type Watcher struct {
	locator  Locator
	interval time.Duration
	onChange func(contextID string)

	mu   sync.Mutex
	last map[string]string
}

// NewWatcher returns a Watcher polling every interval.
func NewWatcher(locator Locator, interval time.Duration, onChange func(contextID string)) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}

	return &Watcher{
		locator:  locator,
		interval: interval,
		onChange: onChange,
		last:     make(map[string]string),
	}
}

// Observe records a location the caller has already acted on, so the next
// poll does not report it again.
func (w *Watcher) Observe(contextID, rawURL string) {
	if contextID == "" {
		return
	}

	w.mu.Lock()
	w.last[contextID] = rawURL
	w.mu.Unlock()
}

// Check polls once and returns the contexts that changed.
func (w *Watcher) Check() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.locator.Locations()

	var changed []string
	for id, u := range current {
		prev, seen := w.last[id]
		w.last[id] = u
		if seen && !SameDocument(prev, u) {
			changed = append(changed, id)
		}
	}

	for id := range w.last {
		if _, ok := current[id]; !ok {
			delete(w.last, id)
		}
	}

	for _, id := range changed {
		w.onChange(id)
	}
	return changed
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check()
		}
	}
}
