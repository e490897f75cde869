package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reglet-dev/nativefn/exports"
	adapter "github.com/reglet-dev/nativefn/infrastructure/wazero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// trampolineExport is the export every host-call trampoline re-exports its import under.
const trampolineExport = "call"

// Executor owns a sealed registry and the wazero runtime it is exported to.
type Executor struct {
	runtime     wazero.Runtime
	registry    *exports.Registry
	hostModule  api.Module
	logger      *slog.Logger
	trampolines map[string]api.Module
	mu          sync.Mutex
}

// NewExecutor loads the configured modules into a registry, seals it, and
// exports it to a new wazero runtime.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	cfg := executorConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	reg := cfg.registry
	if reg == nil {
		var err error
		reg, err = exports.NewRegistry(exports.WithMiddleware(cfg.middleware...))
		if err != nil {
			return nil, fmt.Errorf("failed to create registry: %w", err)
		}
	}
	if err := exports.Load(reg, cfg.modules...); err != nil {
		return nil, err
	}
	reg.Seal()

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	hostModule, err := adapter.RegisterWithRuntime(ctx, rt, reg, cfg.adapterOpts...)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("failed to register native functions: %w", err)
	}

	cfg.logger.InfoContext(ctx, "native host ready",
		"module", hostModule.Name(), "functions", reg.Names())

	return &Executor{
		runtime:    rt,
		registry:   reg,
		hostModule:  hostModule,
		logger:      cfg.logger,
		trampolines: make(map[string]api.Module),
	}, nil
}

// Close releases resources held by the executor, including loaded guests.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Registry returns the sealed registry.
func (e *Executor) Registry() *exports.Registry {
	return e.registry
}

// Invoke calls a native function directly through the registry.
func (e *Executor) Invoke(ctx context.Context, name string, args ...int32) (int32, error) {
	return e.registry.Invoke(ctx, name, args...)
}

// CallHost calls a native function through its wazero host export, the same
// path a guest import takes. The call goes through a generated guest that
// imports the function and re-exports it, instantiated once per function.
func (e *Executor) CallHost(ctx context.Context, name string, args ...int32) (int32, error) {
	fn, ok := e.registry.Lookup(name)
	if !ok {
		return 0, &exports.NotFoundError{Name: name}
	}
	if len(args) != fn.Arity() {
		return 0, &exports.ArityMismatchError{Name: name, Want: fn.Arity(), Got: len(args)}
	}

	mod, err := e.trampoline(ctx, name, fn.Arity())
	if err != nil {
		return 0, err
	}
	return callI32(ctx, mod, trampolineExport, args)
}

func (e *Executor) trampoline(ctx context.Context, name string, arity int) (api.Module, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if mod, ok := e.trampolines[name]; ok {
		return mod, nil
	}

	wasm := adapter.TrampolineWasm(e.hostModule.Name(), name, trampolineExport, arity)
	mod, err := e.runtime.InstantiateWithConfig(ctx, wasm,
		wazero.NewModuleConfig().WithName("host/"+name))
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate host call for %q: %w", name, err)
	}
	e.trampolines[name] = mod
	return mod, nil
}

// GuestInstance represents an instantiated guest module.
type GuestInstance struct {
	module api.Module
}

// LoadGuest instantiates a guest WASM module under name. The guest may import
// any registered function from the host module.
func (e *Executor) LoadGuest(ctx context.Context, name string, wasmBytes []byte) (*GuestInstance, error) {
	mod, err := e.runtime.InstantiateWithConfig(ctx, wasmBytes, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	// Reactor-style guests expect _initialize before any other export.
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	e.logger.DebugContext(ctx, "guest loaded", "guest", name)
	return &GuestInstance{module: mod}, nil
}

// Call invokes an i32-typed guest export.
func (g *GuestInstance) Call(ctx context.Context, export string, args ...int32) (int32, error) {
	return callI32(ctx, g.module, export, args)
}

// Memory exposes the guest's linear memory.
func (g *GuestInstance) Memory() api.Memory {
	return g.module.Memory()
}

// Close closes the guest module.
func (g *GuestInstance) Close(ctx context.Context) error {
	return g.module.Close(ctx)
}

func callI32(ctx context.Context, mod api.Module, name string, args []int32) (int32, error) {
	f := mod.ExportedFunction(name)
	if f == nil {
		return 0, fmt.Errorf("export %q not found", name)
	}
	if want := len(f.Definition().ParamTypes()); want != len(args) {
		return 0, &exports.ArityMismatchError{Name: name, Want: want, Got: len(args)}
	}

	params := make([]uint64, len(args))
	for i, a := range args {
		params[i] = api.EncodeI32(a)
	}

	results, err := f.Call(ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("call %q: %w", name, err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("export %q returned no results", name)
	}
	return api.DecodeI32(results[0]), nil
}
