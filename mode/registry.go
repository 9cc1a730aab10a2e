package mode

import (
	"sort"
	"sync"

	"github.com/flowterm/progress/progresserr"
)

// Registry maps a mode name to its Creator, grounded on modes/factory.rs's
// ModeRegistry.
type Registry struct {
	mu       sync.RWMutex
	creators map[string]Creator
}

// NewRegistry returns a registry pre-populated with the four standard
// creators.
func NewRegistry() *Registry {
	r := &Registry{creators: map[string]Creator{}}
	r.Register(limitedCreator{})
	r.Register(capturingCreator{})
	r.Register(windowCreator{})
	r.Register(windowWithTitleCreator{})
	return r
}

// Register adds or replaces the creator for creator.ModeName().
func (r *Registry) Register(creator Creator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creators[creator.ModeName()] = creator
}

func (r *Registry) lookup(name string) (Creator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.creators[name]
	if !ok {
		available := make([]string, 0, len(r.creators))
		for n := range r.creators {
			available = append(available, n)
		}
		sort.Strings(available)
		return nil, &progresserr.ModeNotRegistered{ModeName: name, Available: available}
	}
	return c, nil
}

// Create validates and constructs a mode by name, propagating hard errors.
func (r *Registry) Create(name string, params Parameters) (ThreadConfig, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return c.Create(params)
}

// CreateWithFallback constructs a mode by name, applying that mode's
// fallback cascade on failure.
func (r *Registry) CreateWithFallback(name string, params Parameters) (ThreadConfig, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return c.CreateWithFallback(params)
}
