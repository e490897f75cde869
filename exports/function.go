package exports

import (
	"context"
	"fmt"
)

// Impl is the slice-based form every exported function is reduced to.
// The registry guarantees len(args) equals the declared arity before calling it.
type Impl func(args []int32) int32

// Invoker is the call signature seen by middleware.
type Invoker func(ctx context.Context, args []int32) (int32, error)

// Function is a native computation of fixed arity over 32-bit signed integers.
// Implementations must be deterministic and free of side effects.
type Function struct {
	impl  Impl
	arity int
}

// NewFunction creates a Function from a slice-based implementation.
// Returns ErrInvalidFunction for a negative arity or a nil implementation.
func NewFunction(arity int, impl Impl) (Function, error) {
	if arity < 0 {
		return Function{}, fmt.Errorf("%w: negative arity %d", ErrInvalidFunction, arity)
	}
	if impl == nil {
		return Function{}, fmt.Errorf("%w: nil implementation", ErrInvalidFunction)
	}
	return Function{arity: arity, impl: impl}, nil
}

// Nullary adapts a zero-argument Go function.
func Nullary(fn func() int32) Function {
	return Function{arity: 0, impl: func([]int32) int32 { return fn() }}
}

// Unary adapts a one-argument Go function.
func Unary(fn func(int32) int32) Function {
	return Function{arity: 1, impl: func(args []int32) int32 { return fn(args[0]) }}
}

// Binary adapts a two-argument Go function.
//
// Example usage:
//
//	reg.Register("sum", exports.Binary(func(a, b int32) int32 { return a + b }))
func Binary(fn func(a, b int32) int32) Function {
	return Function{arity: 2, impl: func(args []int32) int32 { return fn(args[0], args[1]) }}
}

// Ternary adapts a three-argument Go function.
func Ternary(fn func(a, b, c int32) int32) Function {
	return Function{arity: 3, impl: func(args []int32) int32 { return fn(args[0], args[1], args[2]) }}
}

// Arity returns the fixed number of arguments the function accepts.
func (f Function) Arity() int {
	return f.arity
}

// valid reports whether the Function was built by one of the constructors.
func (f Function) valid() bool {
	return f.impl != nil
}

// ExportedFunction is a Function bound to its registered name.
type ExportedFunction struct {
	Function
	Name string
}
