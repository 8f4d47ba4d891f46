// Package bootstrap selects which service component a container runs.
//
// A single image ships every component; the entrypoint picks one through
// the APP_COMPONENT environment variable. An unset or unrecognized value
// is a hard startup failure, never a fall-through.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// EnvComponent is the environment variable naming the component to run.
const EnvComponent = "APP_COMPONENT"

// RunFunc runs a component until ctx is cancelled or the component fails.
type RunFunc func(ctx context.Context) error

// Registry maps component names to their run functions.
type Registry struct {
	components map[string]RunFunc
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]RunFunc)}
}

// Register adds a component. Registering the same name twice panics,
// that is always a wiring bug.
func (r *Registry) Register(name string, fn RunFunc) {
	if _, ok := r.components[name]; ok {
		panic(fmt.Sprintf("bootstrap: component %q registered twice", name))
	}
	r.components[name] = fn
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up a component by name.
func (r *Registry) Resolve(name string) (RunFunc, error) {
	if name == "" {
		return nil, fmt.Errorf("Please set %s to one of: %s",
			EnvComponent, strings.Join(r.Names(), ", "))
	}
	fn, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("Unknown %s %q, must be one of: %s",
			EnvComponent, name, strings.Join(r.Names(), ", "))
	}
	return fn, nil
}

// Run resolves and runs the named component.
func (r *Registry) Run(ctx context.Context, name string) error {
	fn, err := r.Resolve(name)
	if err != nil {
		return err
	}
	return fn(ctx)
}

// RunFromEnv runs the component named by APP_COMPONENT.
func (r *Registry) RunFromEnv(ctx context.Context) error {
	return r.Run(ctx, os.Getenv(EnvComponent))
}
