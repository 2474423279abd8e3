package equation

import "sync"

// Navigator receives dimension-change notifications. Implementations
// live in the rendering layer; the calculator never manages their
// lifetime, it only holds a handle into a registry.
type Navigator interface {
	DimensionChanged(dimension int)
}

// NavigatorRegistry maps opaque handles to navigators. Handle 0 is
// never issued and means "no navigator".
type NavigatorRegistry struct {
	mu      sync.RWMutex
	next    uint64
	entries map[uint64]Navigator
}

func NewNavigatorRegistry() *NavigatorRegistry {
	return &NavigatorRegistry{entries: make(map[uint64]Navigator)}
}

// Register adds a navigator and returns its handle.
func (r *NavigatorRegistry) Register(n Navigator) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.entries[r.next] = n
	return r.next
}

// Unregister drops a handle. Calculators still holding it simply stop
// notifying.
func (r *NavigatorRegistry) Unregister(handle uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, handle)
}

// Lookup resolves a handle, reporting whether it is still registered.
func (r *NavigatorRegistry) Lookup(handle uint64) (Navigator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.entries[handle]
	return n, ok
}

// AttachNavigator points the calculator at a registry entry. Pass
// handle 0 to detach.
func (c *Calculator) AttachNavigator(reg *NavigatorRegistry, handle uint64) {
	c.mu.Lock()
	c.navigators = reg
	c.mu.Unlock()
	c.navigator.Store(handle)
}

func (c *Calculator) notifyNavigator(dimension int) {
	handle := c.navigator.Load()
	if handle == 0 {
		return
	}
	c.mu.Lock()
	reg := c.navigators
	c.mu.Unlock()
	if reg == nil {
		return
	}
	if nav, ok := reg.Lookup(handle); ok {
		nav.DimensionChanged(dimension)
	}
}
