// Package plugin implements the Plugin Registry: third-party action type
// dispatch with plugin > built-in primitive > template precedence.
package plugin

import (
	"fmt"
	"sync"

	"github.com/catapult-run/catapult/internal/domain"
)

// Registry maps action types to plugin handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]domain.PluginHandler
	owners   map[string]string // type -> plugin name, for diagnostics
	plugins  []*domain.Plugin
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]domain.PluginHandler),
		owners:   make(map[string]string),
	}
}

// Register adds every action type p contributes. If any type collides with
// one already registered, none of p's handlers are registered and an error
// is returned; a plugin carrying a LoadError contributes no handlers but is
// still tracked for diagnostics.
func (r *Registry) Register(p *domain.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins = append(r.plugins, p)
	if p.LoadError != nil {
		return nil
	}

	for _, a := range p.Actions {
		if owner, exists := r.owners[a.Type]; exists {
			return fmt.Errorf("plugin: action type %q already registered by plugin %q (registering %q)", a.Type, owner, p.Name)
		}
	}

	for _, a := range p.Actions {
		r.handlers[a.Type] = a.Execute
		r.owners[a.Type] = p.Name
	}
	return nil
}

// Unregister removes every action type owned by the named plugin.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for t, owner := range r.owners {
		if owner == name {
			delete(r.owners, t)
			delete(r.handlers, t)
		}
	}
	filtered := r.plugins[:0]
	for _, p := range r.plugins {
		if p.Name != name {
			filtered = append(filtered, p)
		}
	}
	r.plugins = filtered
}

func (r *Registry) GetHandler(actionType string) (domain.PluginHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[actionType]
	return h, ok
}

func (r *Registry) HasHandler(actionType string) bool {
	_, ok := r.GetHandler(actionType)
	return ok
}

func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	return out
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[string]domain.PluginHandler)
	r.owners = make(map[string]string)
	r.plugins = nil
}

func (r *Registry) Plugins() []*domain.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.Plugin(nil), r.plugins...)
}
