package exports

import (
	"context"
	"sort"
	"sync"
)

// Registry maps names to exported functions. A module populates it once
// during initialization; after Seal it is read-only and any further
// Register call fails.
type Registry struct {
	entries    map[string]entry
	middleware []Middleware
	mu         sync.RWMutex
	sealed     bool
}

type entry struct {
	invoke Invoker
	fn     ExportedFunction
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	middleware []Middleware
	steps      []func(*Registry) error
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

// NewRegistry creates a Registry with the given options.
// Middleware is applied to every function regardless of option order.
// Returns the first registration error, if any.
//
// Example usage:
//
//	reg, err := exports.NewRegistry(
//	    exports.WithMiddleware(exports.PanicRecoveryMiddleware()),
//	    exports.WithModule(arith.Module()),
//	    exports.WithFunction("double", exports.Unary(func(a int32) int32 { return 2 * a })),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{}
	for _, opt := range opts {
		opt(b)
	}

	r := &Registry{
		entries:    make(map[string]entry),
		middleware: b.middleware,
	}
	for _, step := range b.steps {
		if err := step(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds fn to the registry under name.
// It fails with ErrEmptyName, *DuplicateNameError, ErrRegistrySealed or
// ErrInvalidFunction; on failure the registry is left unchanged.
func (r *Registry) Register(name string, fn Function) error {
	if name == "" {
		return ErrEmptyName
	}
	if !fn.valid() {
		return ErrInvalidFunction
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}
	if _, exists := r.entries[name]; exists {
		return &DuplicateNameError{Name: name}
	}

	exported := ExportedFunction{Name: name, Function: fn}
	wrapped := baseInvoker(exported)
	// Apply middleware in reverse order so the first one wraps outermost.
	for i := len(r.middleware) - 1; i >= 0; i-- {
		wrapped = r.middleware[i](wrapped)
	}
	r.entries[name] = entry{fn: exported, invoke: wrapped}
	return nil
}

// Invoke calls the function registered under name with args.
// It fails with *NotFoundError when name is absent and *ArityMismatchError
// when len(args) differs from the function's arity. Arithmetic inside the
// function wraps on overflow and never fails.
func (r *Registry) Invoke(ctx context.Context, name string, args ...int32) (int32, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return 0, &NotFoundError{Name: name}
	}

	return e.invoke(CallContextFrom(ctx, name), args)
}

// Has returns true if a function with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Lookup returns the exported function registered under name.
func (r *Registry) Lookup(name string) (ExportedFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.fn, ok
}

// Names returns a sorted list of all registered names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Functions returns all exported functions sorted by name.
func (r *Registry) Functions() []ExportedFunction {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]ExportedFunction, 0, len(names))
	for _, name := range names {
		if e, ok := r.entries[name]; ok {
			result = append(result, e.fn)
		}
	}
	return result
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Seal makes the registry read-only. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// baseInvoker checks arity and applies the implementation.
func baseInvoker(fn ExportedFunction) Invoker {
	return func(_ context.Context, args []int32) (int32, error) {
		if len(args) != fn.arity {
			return 0, &ArityMismatchError{Name: fn.Name, Want: fn.arity, Got: len(args)}
		}
		return fn.impl(args), nil
	}
}

// WithFunction registers fn under name.
func WithFunction(name string, fn Function) RegistryOption {
	return func(b *registryBuilder) {
		b.steps = append(b.steps, func(r *Registry) error {
			return r.Register(name, fn)
		})
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
