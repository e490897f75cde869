// Package wireformat defines the payload structures exchanged with callers
// that reach the registry through a byte transport. These types must remain
// stable and backward compatible as they define the contract with callers.
package wireformat

import "fmt"

// InvokeRequest asks the host to call Function with positional Args.
type InvokeRequest struct {
	Function string  `json:"function" cbor:"function" jsonschema:"required,minLength=1"`
	Args     []int32 `json:"args" cbor:"args"`
}

// InvokeResponse carries either a Result or an Error, never both.
type InvokeResponse struct {
	Result *int32       `json:"result,omitempty" cbor:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty" cbor:"error,omitempty"`
}

// ErrorDetail is the structured error sent back to callers.
type ErrorDetail struct {
	// Type is a machine-readable identifier (e.g., "NOT_FOUND", "ARITY_MISMATCH").
	Type string `json:"type" cbor:"type"`

	// Message is a human-readable error description.
	Message string `json:"message" cbor:"message"`

	// Code is a numeric error code (e.g., 400, 404, 500).
	Code int `json:"code" cbor:"code"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s [%d]", e.Type, e.Message, e.Code)
}

// Success builds a response holding result.
func Success(result int32) InvokeResponse {
	return InvokeResponse{Result: &result}
}

// Failure builds a response holding detail.
func Failure(detail ErrorDetail) InvokeResponse {
	return InvokeResponse{Error: &detail}
}
