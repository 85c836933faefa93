// Package host defines the adapter boundary to the UI framework that
// owns the element tree, and the expiring reference the orchestrator
// holds to it.
package host

import (
	"sync"

	"github.com/viewsnap/viewsnap/internal/element"
)

// Host is one instance of the UI framework context that owns a view
// tree. Element reads and pixel extraction are only valid while the
// host is alive.
type Host interface {
	Name() string

	// Root returns the display root of the host's view tree.
	Root() *element.Element
}

// Ref is a non-owning, expiring handle to a Host. The host expires the
// handle when it is torn down; every later Get reports the host gone.
// Holding a Ref never extends the host's lifetime.
type Ref struct {
	mu sync.RWMutex
	h  Host
}

// NewRef creates a live handle to h.
func NewRef(h Host) *Ref {
	return &Ref{h: h}
}

// Get returns the host and whether it is still alive.
func (r *Ref) Get() (Host, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.h, r.h != nil
}

// Expire severs the handle. Called by the host on teardown.
func (r *Ref) Expire() {
	r.mu.Lock()
	r.h = nil
	r.mu.Unlock()
}
