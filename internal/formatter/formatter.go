// Package formatter turns request payloads into message text when an
// endpoint has no template. Formatters register themselves from init().
package formatter

import (
	"fmt"
	"slices"
	"sync"
)

// Options is the per-call formatter input taken from the endpoint.
type Options struct {
	Labels       map[string]string
	PluginConfig map[string]any
}

// Formatter renders a payload as message text. Implementations must not keep
// per-call state: one instance serves every endpoint concurrently.
type Formatter interface {
	Format(payload map[string]any, opts Options) (string, error)
}

// Func adapts a function to Formatter.
type Func func(payload map[string]any, opts Options) (string, error)

// Format implements Formatter.
func (f Func) Format(payload map[string]any, opts Options) (string, error) {
	return f(payload, opts)
}

// Registry maps formatter names to implementations.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Register adds f under name. It panics on an empty name or a duplicate.
func (r *Registry) Register(name string, f Formatter) {
	if name == "" {
		panic("formatter: empty name")
	}
	if f == nil {
		panic("formatter: nil formatter for " + name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.formatters[name]; dup {
		panic(fmt.Sprintf("formatter: duplicate registration %q", name))
	}
	r.formatters[name] = f
}

// Lookup returns the formatter registered under name.
func (r *Registry) Lookup(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[name]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var defaultRegistry = NewRegistry()

// Register adds f to the default registry. Call it from init().
func Register(name string, f Formatter) {
	defaultRegistry.Register(name, f)
}

// Default returns the registry holding the built-in and compiled-in formatters.
func Default() *Registry {
	return defaultRegistry
}
