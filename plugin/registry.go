package plugin

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds a fresh plugin instance.
type Factory func() Plugin

var (
	// ErrDuplicatePlugin is returned when a name is registered twice.
	ErrDuplicatePlugin = errors.New("duplicate plugin name")
	// ErrUnknownPlugin is returned by Registry.New for unregistered names.
	ErrUnknownPlugin = errors.New("unknown plugin")
)

// Registry maps plugin names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the plugins of this module.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(SideDistName, func() Plugin { return New() })

	return r
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("empty plugin name")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	err := r.Register(name, factory)
	if err != nil {
		panic("plugin registry: " + err.Error())
	}
}

// Lookup returns the factory for name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// New instantiates the plugin registered under name.
func (r *Registry) New(name string) (Plugin, error) {
	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}

	return factory(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
