// Package wazero provides adapters for exporting a native function registry to the wazero runtime.
//
// This package bridges the registry's pure Go functions with the wazero
// WebAssembly runtime. It handles:
//
//   - Exporting each registry function as a host function over i32 values
//   - Converting between the packed i64 pointer+length format and byte slices
//     for the byte channel
//   - Allocating and writing response data to guest memory
//
// # Basic Usage
//
//	reg, err := exports.NewRegistry(exports.WithModule(arith.Module()))
//	if err != nil {
//	    return err
//	}
//	reg.Seal()
//
//	runtime := wazero.NewRuntime(ctx)
//	hostMod, err := wazero.RegisterWithRuntime(ctx, runtime, reg)
//
// A guest then imports the functions by name:
//
//	(import "native" "sum" (func $sum (param i32 i32) (result i32)))
//
// # Calling Host Exports From Go
//
// wazero only lets guests call host functions. TrampolineWasm builds a guest
// that imports one function and re-exports it, which is how the host package
// reaches its own exports.
package wazero
