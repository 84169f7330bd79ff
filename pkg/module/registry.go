package module

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cv-dev/cv/pkg/vdom"
)

// ErrNotFound is returned when a loader has no module for a specifier.
var ErrNotFound = errors.New("module: not found")

// Registry is a Loader over components registered in-process.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]vdom.Namespace
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]vdom.Namespace)}
}

// Register adds or replaces the exports of spec.
func (r *Registry) Register(spec string, ns vdom.Namespace) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := r.modules[spec]
	if merged == nil {
		merged = vdom.Namespace{}
	}
	for name, c := range ns {
		merged[name] = c
	}
	r.modules[spec] = merged
}

// RegisterComponent adds a single export to spec.
func (r *Registry) RegisterComponent(spec, export string, c vdom.Component) {
	r.Register(spec, vdom.Namespace{export: c})
}

// Load returns the exports registered under spec.
func (r *Registry) Load(ctx context.Context, spec string) (vdom.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ns, ok := r.modules[spec]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, spec)
	}

	// Copy so later registrations do not race with the caller.
	out := make(vdom.Namespace, len(ns))
	for name, c := range ns {
		out[name] = c
	}
	return out, nil
}

// Specifiers returns the registered specifiers in sorted order.
func (r *Registry) Specifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.modules))
	for spec := range r.modules {
		out = append(out, spec)
	}
	sort.Strings(out)
	return out
}

// Chain tries each loader in order and returns the first module found.
// Loaders reporting ErrNotFound are skipped; any other error stops the
// search.
type Chain []vdom.Loader

// Load implements vdom.Loader.
func (c Chain) Load(ctx context.Context, spec string) (vdom.Module, error) {
	for _, l := range c {
		if l == nil {
			continue
		}
		mod, err := l.Load(ctx, spec)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return mod, err
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, spec)
}

var (
	_ vdom.Loader = (*Registry)(nil)
	_ vdom.Loader = Chain(nil)
)
