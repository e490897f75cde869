// Package testutil provides hand-assembled WebAssembly guests for tests that
// exercise the host module.
package testutil

// Import coordinates used by the guests below.
const (
	HostModule   = "native"
	InvokeExport = "native_invoke"
)

// SumGuestWasm imports native.sum (i32, i32) -> i32 and re-exports it as
// "add" (i32, i32) -> i32, forwarding both parameters.
//
//	(module
//	  (import "native" "sum" (func $sum (param i32 i32) (result i32)))
//	  (func (export "add") (param i32 i32) (result i32)
//	    local.get 0 local.get 1 call $sum))
var SumGuestWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type: (i32, i32) -> i32
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	// import "native" "sum"
	0x02, 0x0e, 0x01, 0x06, 0x6e, 0x61, 0x74, 0x69, 0x76, 0x65, 0x03, 0x73, 0x75, 0x6d, 0x00, 0x00,
	// function
	0x03, 0x02, 0x01, 0x00,
	// export "add"
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x01,
	// code
	0x0a, 0x0a, 0x01, 0x08, 0x00, 0x20, 0x00, 0x20, 0x01, 0x10, 0x00, 0x0b,
}

// InvokeGuestPayload is the JSON request baked into InvokeGuestWasm's data segment.
const InvokeGuestPayload = `{"function":"sum","args":[2,3]}`

// InvokeGuestResponseOffset is where InvokeGuestWasm's allocate places every response.
const InvokeGuestResponseOffset = 1024

// InvokeGuestWasm exercises the packed ptr+len byte channel. It holds
// InvokeGuestPayload at offset 16, exports "allocate" (always returns 1024),
// and exports "call_sum" () -> i64 which passes the payload to
// native.native_invoke and returns the packed response.
//
//	(module
//	  (import "native" "native_invoke" (func $invoke (param i64) (result i64)))
//	  (memory (export "memory") 1)
//	  (func (export "allocate") (param i32) (result i32) i32.const 1024)
//	  (func (export "call_sum") (result i64)
//	    i64.const 0x100000001f call $invoke)
//	  (data (i32.const 16) "{\"function\":\"sum\",\"args\":[2,3]}"))
var InvokeGuestWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// types: (i64) -> i64, (i32) -> i32, () -> i64
	0x01, 0x0f, 0x03, 0x60, 0x01, 0x7e, 0x01, 0x7e, 0x60, 0x01, 0x7f, 0x01, 0x7f, 0x60, 0x00, 0x01, 0x7e,
	// import "native" "native_invoke"
	0x02, 0x18, 0x01, 0x06, 0x6e, 0x61, 0x74, 0x69, 0x76, 0x65, 0x0d, 0x6e, 0x61, 0x74, 0x69, 0x76,
	0x65, 0x5f, 0x69, 0x6e, 0x76, 0x6f, 0x6b, 0x65, 0x00, 0x00,
	// functions
	0x03, 0x03, 0x02, 0x01, 0x02,
	// memory: min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// exports "memory", "allocate", "call_sum"
	0x07, 0x20, 0x03, 0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, 0x08, 0x61, 0x6c, 0x6c,
	0x6f, 0x63, 0x61, 0x74, 0x65, 0x00, 0x01, 0x08, 0x63, 0x61, 0x6c, 0x6c, 0x5f, 0x73, 0x75, 0x6d,
	0x00, 0x02,
	// code
	0x0a, 0x13, 0x02, 0x05, 0x00, 0x41, 0x80, 0x08, 0x0b, 0x0b, 0x00, 0x42, 0x9f, 0x80, 0x80, 0x80,
	0x80, 0x02, 0x10, 0x00, 0x0b,
	// data at offset 16
	0x0b, 0x25, 0x01, 0x00, 0x41, 0x10, 0x0b, 0x1f, 0x7b, 0x22, 0x66, 0x75, 0x6e, 0x63, 0x74, 0x69,
	0x6f, 0x6e, 0x22, 0x3a, 0x22, 0x73, 0x75, 0x6d, 0x22, 0x2c, 0x22, 0x61, 0x72, 0x67, 0x73, 0x22,
	0x3a, 0x5b, 0x32, 0x2c, 0x33, 0x5d, 0x7d,
}
