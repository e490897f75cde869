package exports

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/nativefn/wireformat"
)

// Sentinel errors for registry operations. The typed errors below match
// their sentinel via errors.Is.
var (
	ErrEmptyName       = errors.New("function name cannot be empty")
	ErrDuplicateName   = errors.New("duplicate function name")
	ErrNotFound        = errors.New("function not found")
	ErrArityMismatch   = errors.New("arity mismatch")
	ErrRegistrySealed  = errors.New("registry is sealed")
	ErrInvalidFunction = errors.New("invalid function")
)

// DuplicateNameError is returned when a name is registered twice in one registry.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate function name: %q", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// NotFoundError is returned when invoking a name the registry does not hold.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "unknown function: " + e.Name
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ArityMismatchError is returned when the argument count differs from the
// function's declared arity.
type ArityMismatchError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("function %q takes %d argument(s), got %d", e.Name, e.Want, e.Got)
}

func (e *ArityMismatchError) Is(target error) bool {
	return target == ErrArityMismatch
}

// PanicError wraps a value recovered from a panicking implementation.
type PanicError struct {
	Value any
	Name  string
}

func (e *PanicError) Error() string {
	var msg string
	if err, ok := e.Value.(error); ok {
		msg = err.Error()
	} else if s, ok := e.Value.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	if e.Name != "" {
		return fmt.Sprintf("function %q panicked: %s", e.Name, msg)
	}
	return "panic: " + msg
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// ErrorResponse represents a structured error that can be returned to callers
// on the other side of a byte transport.
type ErrorResponse struct {
	// Error is a machine-readable error type identifier (e.g., "NOT_FOUND", "INTERNAL_ERROR").
	Error string

	// Message is a human-readable error description.
	Message string

	// Code is a numeric error code (e.g., 400, 500).
	Code int
}

// Detail converts the response into the wire error shape.
func (e ErrorResponse) Detail() wireformat.ErrorDetail {
	return wireformat.ErrorDetail{
		Type:    e.Error,
		Message: e.Message,
		Code:    e.Code,
	}
}

// NewValidationError creates an error response for bad input (e.g., a malformed payload).
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Code:    400,
	}
}

// NewNotFoundError creates an error response for unknown function names.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{
		Error:   "NOT_FOUND",
		Message: "unknown function: " + name,
		Code:    404,
	}
}

// NewArityError creates an error response for a wrong argument count.
func NewArityError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "ARITY_MISMATCH",
		Message: message,
		Code:    400,
	}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: message,
		Code:    500,
	}
}

// ErrorResponseFrom maps a registry error onto its wire representation.
func ErrorResponseFrom(err error) ErrorResponse {
	var (
		notFound *NotFoundError
		arity    *ArityMismatchError
	)
	switch {
	case errors.As(err, &notFound):
		return NewNotFoundError(notFound.Name)
	case errors.As(err, &arity):
		return NewArityError(arity.Error())
	case errors.Is(err, ErrEmptyName):
		return NewValidationError(err.Error())
	default:
		return NewInternalError(err.Error())
	}
}
