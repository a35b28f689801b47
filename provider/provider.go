package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider is implemented by every collaborator backend.
type Provider interface {
	// Name is the registry name of the backend, e.g. "whisper".
	Name() string
	// IsAvailable reports whether the backend can serve requests right now.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a loosely typed config map, as decoded
// from the providers section of config.yml.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// Registry maps backend names to factories and keeps the first instance
// built for each name.
type Registry[T Provider] struct {
	mu        sync.Mutex
	factories map[string]Factory[T]
	built     map[string]T
}

func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: map[string]Factory[T]{}, built: map[string]T{}}
}

// Register adds or replaces the factory for name.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	delete(r.built, name)
}

// Resolve returns the instance for name, building it from cfg on first use.
// Later calls ignore cfg.
func (r *Registry[T]) Resolve(name string, cfg map[string]any) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.built[name]; ok {
		return p, nil
	}
	f, ok := r.factories[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider %q is not registered (known: %v)", name, r.namesLocked())
	}
	p, err := f(cfg)
	if err != nil {
		return p, err
	}
	r.built[name] = p
	return p, nil
}

// Names returns the registered backend names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

func (r *Registry[T]) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
