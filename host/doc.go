// Package host provides the runtime environment that loads native modules
// and exposes their functions to callers.
//
// It builds and seals the function registry, instantiates the WASM engine
// (wazero) with the registry exported as a host module, and manages the
// lifecycle of guest modules that import those functions.
package host
