package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/vine/pkg/function"
	"github.com/mitchellh/mapstructure"
)

// ErrNotFound is returned when no function is registered under a name.
var ErrNotFound = errors.New("function not found")

// MapFactory builds a map function from its decoded arguments.
type MapFactory func(args map[string]any) (function.MapFunction, error)

// FilterFactory builds a filter function from its decoded arguments.
type FilterFactory func(args map[string]any) (function.FilterFunction, error)

// Registry manages the named functions a pipeline definition may reference.
type Registry struct {
	mu      sync.RWMutex
	maps    map[string]MapFactory
	filters map[string]FilterFactory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		maps:    make(map[string]MapFactory),
		filters: make(map[string]FilterFactory),
	}
}

// NewDefault creates a registry holding the built-in functions.
func NewDefault() *Registry {
	r := New()
	registerBuiltins(r)
	return r
}

// RegisterMap adds a map function. An existing entry with the same name is overwritten.
func (r *Registry) RegisterMap(name string, fn MapFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps[name] = fn
}

// RegisterFilter adds a filter function. An existing entry with the same name is overwritten.
func (r *Registry) RegisterFilter(name string, fn FilterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = fn
}

// Map builds the map function registered under name.
func (r *Registry) Map(name string, args map[string]any) (function.MapFunction, error) {
	r.mu.RLock()
	fn, ok := r.maps[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: map %q", ErrNotFound, name)
	}
	f, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", name, err)
	}
	return f, nil
}

// Filter builds the filter function registered under name.
func (r *Registry) Filter(name string, args map[string]any) (function.FilterFunction, error) {
	r.mu.RLock()
	fn, ok := r.filters[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: filter %q", ErrNotFound, name)
	}
	f, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", name, err)
	}
	return f, nil
}

// MapNames lists the registered map functions in sorted order.
func (r *Registry) MapNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedNames(r.maps)
}

// FilterNames lists the registered filter functions in sorted order.
func (r *Registry) FilterNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedNames(r.filters)
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Decode copies args into out, rejecting unknown keys.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}
