package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/nativefn/exports"
	"github.com/reglet-dev/nativefn/wireformat"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// DefaultMaxRequestSize limits the size of byte-channel requests read from guest memory (1MB).
const DefaultMaxRequestSize = 1 * 1024 * 1024

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// Codec decodes byte-channel requests and encodes responses (default: JSON).
	Codec wireformat.Codec

	// ModuleName is the host module name guests import from (default: "native").
	ModuleName string

	// InvokeExport names the packed ptr+len byte-channel function
	// (default: "native_invoke"). Empty disables it.
	InvokeExport string

	// MaxRequestSize limits the size of byte-channel requests from guest memory.
	MaxRequestSize uint32
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name (default: "native").
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithInvokeExport sets the byte-channel export name. Empty disables it.
func WithInvokeExport(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.InvokeExport = name
	}
}

// WithCodec sets the byte-channel codec.
func WithCodec(codec wireformat.Codec) AdapterOption {
	return func(c *AdapterConfig) {
		c.Codec = codec
	}
}

// WithMaxRequestSize sets the maximum byte-channel request size.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:     "native",
		InvokeExport:   "native_invoke",
		Codec:          wireformat.JSON(),
		MaxRequestSize: DefaultMaxRequestSize,
	}
}

// RegisterWithRuntime exports every function in reg from a host module
// (default name "native") and instantiates it.
//
// Each function of arity N becomes a host function taking N i32 parameters
// and returning one i32. A registry error surfaces in the guest as a trap.
//
// Unless disabled, the module also exports a byte channel (default
// "native_invoke") that:
//   - Reads an encoded wireformat.InvokeRequest from guest memory using the packed i64 ptr+len format
//   - Invokes the registry by name
//   - Allocates response memory in the guest using the "allocate" export
//   - Writes the encoded wireformat.InvokeResponse and returns its packed i64 ptr+len
//
// Example:
//
//	reg, _ := exports.NewRegistry(exports.WithModule(arith.Module()))
//	mod, err := wazero.RegisterWithRuntime(ctx, runtime, reg,
//	    wazero.WithModuleName("native"),
//	)
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, reg *exports.Registry, opts ...AdapterOption) (api.Module, error) {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ModuleName == "" {
		return nil, fmt.Errorf("host module name cannot be empty")
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)

	for _, fn := range reg.Functions() {
		name, arity := fn.Name, fn.Arity()
		params := make([]api.ValueType, arity)
		for i := range params {
			params[i] = api.ValueTypeI32
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				handleIntegerCall(ctx, mod, stack, reg, name, arity)
			}), params, []api.ValueType{api.ValueTypeI32}).
			Export(name)
	}

	if cfg.InvokeExport != "" {
		if reg.Has(cfg.InvokeExport) {
			return nil, fmt.Errorf("byte channel export %q collides with a registered function", cfg.InvokeExport)
		}
		handler := exports.NewByteHandler(reg, cfg.Codec)
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				handleByteCall(ctx, mod, stack, handler, cfg.Codec, cfg.MaxRequestSize)
			}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
			Export(cfg.InvokeExport)
	}

	return builder.Instantiate(ctx)
}

// handleIntegerCall decodes i32 arguments from the stack, invokes the registry,
// and writes the i32 result back. Errors trap the calling guest.
func handleIntegerCall(ctx context.Context, mod api.Module, stack []uint64, reg *exports.Registry, name string, arity int) {
	args := make([]int32, arity)
	for i := range args {
		args[i] = api.DecodeI32(stack[i])
	}

	ctx = WithCallerName(ctx, CallerName(ctx, mod))
	result, err := reg.Invoke(ctx, name, args...)
	if err != nil {
		slog.ErrorContext(ctx, "wazero: native function failed", "function", name, "error", err)
		panic(err)
	}
	stack[0] = api.EncodeI32(result)
}

// handleByteCall reads the request from guest memory, invokes the handler,
// and writes the response.
func handleByteCall(ctx context.Context, mod api.Module, stack []uint64, handler exports.ByteHandler, codec wireformat.Codec, maxRequestSize uint32) {
	ptr, length := unpackPtrLen(stack[0])

	if length > maxRequestSize {
		errMsg := fmt.Sprintf("request size %d exceeds maximum %d bytes", length, maxRequestSize)
		slog.ErrorContext(ctx, "wazero: "+errMsg)
		stack[0] = writeErrorResponse(ctx, mod, codec, exports.NewValidationError(errMsg))
		return
	}

	requestBytes, ok := mod.Memory().Read(ptr, length)
	if !ok {
		errMsg := "failed to read request from guest memory"
		slog.ErrorContext(ctx, "wazero: "+errMsg)
		stack[0] = writeErrorResponse(ctx, mod, codec, exports.NewInternalError(errMsg))
		return
	}

	ctx = WithCallerName(ctx, CallerName(ctx, mod))
	responseBytes, err := handler(ctx, requestBytes)
	if err != nil {
		slog.ErrorContext(ctx, "wazero: byte channel invocation failed", "error", err)
		stack[0] = writeErrorResponse(ctx, mod, codec, exports.NewInternalError(err.Error()))
		return
	}

	stack[0] = writeResponse(ctx, mod, responseBytes)
}

// writeResponse allocates memory in the guest and writes the response bytes.
// Returns packed ptr+len or 0 on failure.
func writeResponse(ctx context.Context, mod api.Module, data []byte) uint64 {
	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		slog.ErrorContext(ctx, "wazero: guest module missing 'allocate' export")
		return 0
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil || len(results) == 0 {
		slog.ErrorContext(ctx, "wazero: failed to call guest allocate", "error", err)
		return 0
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		slog.ErrorContext(ctx, "wazero: failed to write response to guest memory")
		return 0
	}

	return packPtrLen(ptr, uint32(len(data))) //nolint:gosec // G115: Data length is bounded by the codec
}

// writeErrorResponse encodes errResp as a failed wireformat.InvokeResponse.
func writeErrorResponse(ctx context.Context, mod api.Module, codec wireformat.Codec, errResp exports.ErrorResponse) uint64 {
	data, err := codec.Marshal(wireformat.Failure(errResp.Detail()))
	if err != nil {
		slog.ErrorContext(ctx, "wazero: failed to encode error response", "error", err)
		return 0
	}
	return writeResponse(ctx, mod, data)
}

// packPtrLen packs a pointer and length into a single i64.
// Upper 32 bits: pointer, lower 32 bits: length.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: Packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: Packed format stores 32-bit values
	return ptr, length
}

// UnpackPtrLen splits a packed i64 returned by the byte channel.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	return unpackPtrLen(packed)
}
