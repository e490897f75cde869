// Package exports provides the registry that native modules populate with
// fixed-arity integer functions, and the invocation path host runtimes use
// to call those functions by name.
//
// It has NO WASM runtime dependencies. Runtime adapters (wazero, byte
// payload transports) live on top of Registry.Invoke.
package exports
