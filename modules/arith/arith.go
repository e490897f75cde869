// Package arith is the example native module: pure integer arithmetic
// exported under stable names.
package arith

import "github.com/reglet-dev/nativefn/exports"

// ModuleName is the name hosts load this module under.
const ModuleName = "example"

// Sum adds two 32-bit integers. Overflow wraps.
func Sum(a, b int32) int32 {
	return a + b
}

// Factorial computes n! in unsigned 32-bit arithmetic; n <= 1 yields 1.
// Results beyond 12! wrap modulo 2^32 and are returned as int32 bits.
func Factorial(n int32) int32 {
	acc := uint32(1)
	for i := uint32(2); int64(i) <= int64(n); i++ {
		acc *= i
		if acc == 0 {
			break // every further product is 0 once 2^32 divides it
		}
	}
	return int32(acc)
}

// Initialize is the module entry point. It registers sum and factorial.
func Initialize(reg *exports.Registry) error {
	if err := reg.Register("sum", exports.Binary(Sum)); err != nil {
		return err
	}
	return reg.Register("factorial", exports.Unary(Factorial))
}

// Module returns the example module for hosts that load modules by value.
func Module() exports.Module {
	return exports.ModuleFunc{ID: ModuleName, Init: Initialize}
}
