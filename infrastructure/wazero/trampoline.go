package wazero

// TrampolineWasm assembles a guest module that imports module.function with
// arity i32 parameters and one i32 result and re-exports it unchanged under
// export. Host functions can only be called from a guest, so the host uses
// one of these to reach its own exports.
//
//	(module
//	  (import "<module>" "<function>" (func $f (param i32...) (result i32)))
//	  (func (export "<export>") (param i32...) (result i32)
//	    local.get 0 ... local.get N-1 call $f))
func TrampolineWasm(module, function, export string, arity int) []byte {
	sig := []byte{0x60}
	sig = appendULEB(sig, uint32(arity)) //nolint:gosec // G115: arity is never negative
	for range arity {
		sig = append(sig, valI32)
	}
	sig = append(sig, 0x01, valI32)

	imp := []byte{0x01}
	imp = appendName(imp, module)
	imp = appendName(imp, function)
	imp = append(imp, 0x00, 0x00) // func, type 0

	exp := []byte{0x01}
	exp = appendName(exp, export)
	exp = append(exp, 0x00, 0x01) // func, index 1 (index 0 is the import)

	body := []byte{0x00} // no locals
	for i := range arity {
		body = append(body, opLocalGet)
		body = appendULEB(body, uint32(i)) //nolint:gosec // G115: bounded by arity
	}
	body = append(body, opCall, 0x00, opEnd)
	code := appendULEB([]byte{0x01}, uint32(len(body))) //nolint:gosec // G115: tiny body
	code = append(code, body...)

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = appendSection(out, secType, append([]byte{0x01}, sig...))
	out = appendSection(out, secImport, imp)
	out = appendSection(out, secFunction, []byte{0x01, 0x00})
	out = appendSection(out, secExport, exp)
	out = appendSection(out, secCode, code)
	return out
}

const (
	secType     = 0x01
	secImport   = 0x02
	secFunction = 0x03
	secExport   = 0x07
	secCode     = 0x0a

	valI32     = 0x7f
	opLocalGet = 0x20
	opCall     = 0x10
	opEnd      = 0x0b
)

func appendSection(dst []byte, id byte, content []byte) []byte {
	dst = append(dst, id)
	dst = appendULEB(dst, uint32(len(content))) //nolint:gosec // G115: sections stay small
	return append(dst, content...)
}

func appendName(dst []byte, s string) []byte {
	dst = appendULEB(dst, uint32(len(s))) //nolint:gosec // G115: names stay small
	return append(dst, s...)
}

func appendULEB(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}
