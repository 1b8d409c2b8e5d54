package filing

import (
	"strings"
	"sync"
)

// Factory reconstructs a concrete filing shape from a ToMap result.
type Factory func(values map[string]any) (Filing, error)

// Resolver maps a source discriminator to the factory for its concrete
// filing shape, so records deserialize back to the shape they were indexed
// as. It is an explicit object rather than process-global state: each
// catalog holds the resolver it was constructed with.
type Resolver struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{factories: make(map[string]Factory)}
}

// Register installs or overwrites the factory for a source discriminator.
// Matching is case-insensitive.
func (r *Resolver) Register(source string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(source)] = factory
}

// Resolve returns the factory for a source discriminator, or nil when the
// source is empty or unregistered. It never fails: callers handle nil by
// falling back to the base shape.
func (r *Resolver) Resolve(source string) Factory {
	if source == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[strings.ToLower(source)]
}

// Sources returns the registered discriminators, for diagnostics.
func (r *Resolver) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for s := range r.factories {
		out = append(out, s)
	}
	return out
}

// Restore reconstructs a filing from a ToMap result using the registered
// factory for its source. Unknown sources, and records a registered factory
// rejects, degrade gracefully to the base shape with extra fields retained.
func (r *Resolver) Restore(values map[string]any) (Filing, error) {
	source, _ := values[FieldSource].(string)
	if factory := r.Resolve(source); factory != nil {
		if f, err := factory(values); err == nil {
			return f, nil
		}
	}
	return FromMap(values)
}

// DefaultResolver returns a new resolver pre-populated with the built-in
// shapes, so EDINET and EDGAR records work without explicit registration.
func DefaultResolver() *Resolver {
	r := NewResolver()
	r.Register(SourceEDINET, func(values map[string]any) (Filing, error) {
		return NewEDINET(values)
	})
	r.Register(SourceEDGAR, func(values map[string]any) (Filing, error) {
		return NewEDGAR(values)
	})
	return r
}
