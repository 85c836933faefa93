// Package finder locates the best capturable element under a tree root,
// with a short-TTL cache so repeated captures of the same screen region
// do not re-walk the tree every time.
package finder

import (
	"sync"
	"time"

	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/logger"
)

const (
	// DefaultMaxDepth bounds the tree walk on pathological trees.
	DefaultMaxDepth = 20

	// DefaultTTL is how long a cached candidate stays fresh.
	DefaultTTL = 500 * time.Millisecond
)

// kindPriority is the search order: the most content-rich kinds win.
// Plain elements never match; the root itself is the fallback.
var kindPriority = []element.Kind{
	element.KindMediaPlayerSurface,
	element.KindHardwareSurface,
	element.KindWebContent,
	element.KindSimpleVideo,
	element.KindImage,
}

// Options configure a Finder. Zero values select the defaults; Clock is
// injectable for tests.
type Options struct {
	MaxDepth int
	TTL      time.Duration
	Clock    func() time.Time
}

type cacheEntry struct {
	candidate *element.Element
	at        time.Time
}

// Finder performs the priority search. Safe for concurrent use from
// multiple capture requests; the cache is the only shared state.
type Finder struct {
	maxDepth int
	ttl      time.Duration
	clock    func() time.Time

	mu    sync.Mutex
	cache map[*element.Element]cacheEntry
}

// New creates a Finder.
func New(opts Options) *Finder {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Finder{
		maxDepth: opts.MaxDepth,
		ttl:      opts.TTL,
		clock:    opts.Clock,
		cache:    make(map[*element.Element]cacheEntry),
	}
}

// FindBest returns the best capturable element under root, or root
// itself when nothing better is found. With useCache, a hit younger
// than the TTL is returned as long as the cached candidate is still
// shown; anything else triggers a fresh walk.
func (f *Finder) FindBest(root *element.Element, useCache bool) *element.Element {
	if root == nil {
		return nil
	}

	now := f.clock()
	if useCache {
		f.mu.Lock()
		entry, ok := f.cache[root]
		f.mu.Unlock()
		if ok && now.Sub(entry.at) <= f.ttl && entry.candidate.IsShown() {
			return entry.candidate
		}
	}

	best := f.search(root)
	if best == nil {
		best = root
	}

	f.mu.Lock()
	f.purgeStaleLocked(now)
	f.cache[root] = cacheEntry{candidate: best, at: now}
	f.mu.Unlock()

	logger.WithComponent("finder").Debug().
		Str("root", root.ID).
		Str("best", best.ID).
		Str("kind", best.Kind.String()).
		Msg("Best element resolved")
	return best
}

// Invalidate drops the cached candidate for a root.
func (f *Finder) Invalidate(root *element.Element) {
	f.mu.Lock()
	delete(f.cache, root)
	f.mu.Unlock()
}

// InvalidateAll drops every cached candidate.
func (f *Finder) InvalidateAll() {
	f.mu.Lock()
	f.cache = make(map[*element.Element]cacheEntry)
	f.mu.Unlock()
}

// search runs one depth-bounded pre-order pass per priority level and
// returns the first shown match.
func (f *Finder) search(root *element.Element) *element.Element {
	for _, kind := range kindPriority {
		if found := findKind(root, kind, f.maxDepth); found != nil {
			return found
		}
	}
	return nil
}

func findKind(el *element.Element, kind element.Kind, depth int) *element.Element {
	if depth < 0 {
		return nil
	}
	if matchesKind(el, kind) && el.IsShown() {
		return el
	}
	for _, child := range el.Children() {
		if found := findKind(child, kind, depth-1); found != nil {
			return found
		}
	}
	return nil
}

// matchesKind matches the media kind by class-name suffix, since the
// media component is optional and its concrete kind may be absent from
// the host build. Other kinds match directly.
func matchesKind(el *element.Element, kind element.Kind) bool {
	if kind == element.KindMediaPlayerSurface {
		return el.IsMediaPlayer()
	}
	return el.Kind == kind
}

// purgeStaleLocked drops entries older than twice the TTL. Called
// opportunistically on writes with f.mu held.
func (f *Finder) purgeStaleLocked(now time.Time) {
	for root, entry := range f.cache {
		if now.Sub(entry.at) > 2*f.ttl {
			delete(f.cache, root)
		}
	}
}
