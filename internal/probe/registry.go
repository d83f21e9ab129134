package probe

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the probes available to a process.
type Registry struct {
	mu     sync.RWMutex
	probes map[string]Probe
}

// NewRegistry creates an empty probe registry.
func NewRegistry() *Registry {
	return &Registry{
		probes: make(map[string]Probe),
	}
}

// Register adds a probe to the registry.
func (r *Registry) Register(p Probe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.probes[name]; exists {
		return fmt.Errorf("probe %s already registered", name)
	}

	r.probes[name] = p
	return nil
}

// Get retrieves a probe by name.
func (r *Registry) Get(name string) (Probe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.probes[name]
	if !exists {
		return nil, fmt.Errorf("probe %s not found", name)
	}

	return p, nil
}

// List returns all registered probe names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.probes))
	for name := range r.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
