package host

import (
	"log/slog"

	"github.com/reglet-dev/nativefn/exports"
	adapter "github.com/reglet-dev/nativefn/infrastructure/wazero"
)

// Option defines a functional option for configuring the Executor.
type Option func(*executorConfig)

type executorConfig struct {
	registry    *exports.Registry
	logger      *slog.Logger
	modules     []exports.Module
	middleware  []exports.Middleware
	adapterOpts []adapter.AdapterOption
}

// WithModules adds modules to initialize, in order, when the executor starts.
func WithModules(modules ...exports.Module) Option {
	return func(c *executorConfig) {
		c.modules = append(c.modules, modules...)
	}
}

// WithMiddleware adds registry middleware. It only applies to the registry
// the executor builds itself, not to one passed via WithRegistry.
func WithMiddleware(mw ...exports.Middleware) Option {
	return func(c *executorConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithRegistry uses an existing registry instead of building one.
// Configured modules are still loaded into it before it is sealed.
func WithRegistry(reg *exports.Registry) Option {
	return func(c *executorConfig) {
		c.registry = reg
	}
}

// WithAdapterOptions configures how the registry is exported to wazero.
func WithAdapterOptions(opts ...adapter.AdapterOption) Option {
	return func(c *executorConfig) {
		c.adapterOpts = append(c.adapterOpts, opts...)
	}
}

// WithLogger sets the logger used for lifecycle events (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *executorConfig) {
		c.logger = logger
	}
}
