package plugin

import (
	"fmt"

	"github.com/catapult-run/catapult/internal/domain"
)

// Factory constructs a compiled-in plugin. Go has no supported dynamic
// code-loading equivalent to a JS host's require()/import that would
// survive static linking, so plugins named in catapult.config's "plugins"
// list are resolved against this compile-time registry instead of loaded
// from disk at runtime (SPEC_FULL.md §4.5.1).
type Factory func() (*domain.Plugin, error)

var factories = map[string]Factory{}

// MustRegisterFactory adds a compiled-in plugin factory under name. A plugin
// package calls it at init time; the package must be imported into the
// binary for its factory to be registered.
func MustRegisterFactory(name string, f Factory) {
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("plugin: factory %q already registered", name))
	}
	factories[name] = f
}

// LoadConfigured resolves every plugin identifier in names against the
// compile-time factory registry and registers it. An identifier with no
// matching factory is registered with a LoadError rather than aborting the
// whole load, matching the plugin module contract's "missing name or
// non-object export is a load error" handling.
func (r *Registry) LoadConfigured(names []string) error {
	for _, name := range names {
		factory, ok := factories[name]
		if !ok {
			if err := r.Register(&domain.Plugin{
				Name:      name,
				LoadError: fmt.Errorf("plugin %q is not compiled into this binary", name),
			}); err != nil {
				return err
			}
			continue
		}

		p, err := factory()
		if err != nil {
			if regErr := r.Register(&domain.Plugin{Name: name, LoadError: err}); regErr != nil {
				return regErr
			}
			continue
		}
		if err := r.Register(p); err != nil {
			return fmt.Errorf("plugin %q: %w", name, err)
		}
	}
	return nil
}
