package exports

import (
	"fmt"
	"sort"
)

// Module is a named, loadable unit that exposes functions to a host.
// Initialize is the module's entry point: the host calls it exactly once
// with a live registry before any Invoke.
type Module interface {
	Name() string
	Initialize(reg *Registry) error
}

// ModuleFunc adapts a plain initialization function into a Module.
type ModuleFunc struct {
	Init func(reg *Registry) error
	ID   string
}

func (m ModuleFunc) Name() string {
	return m.ID
}

func (m ModuleFunc) Initialize(reg *Registry) error {
	return m.Init(reg)
}

// staticModule implements Module with a fixed set of functions.
type staticModule struct {
	functions map[string]Function
	name      string
}

// StaticModule returns a Module that registers functions in name order.
func StaticModule(name string, functions map[string]Function) Module {
	return &staticModule{name: name, functions: functions}
}

func (m *staticModule) Name() string {
	return m.name
}

func (m *staticModule) Initialize(reg *Registry) error {
	names := make([]string, 0, len(m.functions))
	for name := range m.functions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := reg.Register(name, m.functions[name]); err != nil {
			return err
		}
	}
	return nil
}

// Load initializes each module against reg in order and stops at the first failure.
func Load(reg *Registry, modules ...Module) error {
	for _, m := range modules {
		if err := m.Initialize(reg); err != nil {
			return fmt.Errorf("failed to initialize module %q: %w", m.Name(), err)
		}
	}
	return nil
}

// WithModule initializes m against the registry under construction.
func WithModule(m Module) RegistryOption {
	return func(b *registryBuilder) {
		b.steps = append(b.steps, func(r *Registry) error {
			return Load(r, m)
		})
	}
}
