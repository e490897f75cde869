package exports

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reglet-dev/nativefn/wireformat"
	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_Detail(t *testing.T) {
	tests := []struct {
		name     string
		err      ErrorResponse
		expected wireformat.ErrorDetail
	}{
		{
			name:     "validation error",
			err:      NewValidationError("invalid JSON"),
			expected: wireformat.ErrorDetail{Type: "VALIDATION_ERROR", Message: "invalid JSON", Code: 400},
		},
		{
			name:     "not found",
			err:      NewNotFoundError("foo"),
			expected: wireformat.ErrorDetail{Type: "NOT_FOUND", Message: "unknown function: foo", Code: 404},
		},
		{
			name:     "arity mismatch",
			err:      NewArityError("wrong count"),
			expected: wireformat.ErrorDetail{Type: "ARITY_MISMATCH", Message: "wrong count", Code: 400},
		},
		{
			name:     "internal error",
			err:      NewInternalError("panic: oh no"),
			expected: wireformat.ErrorDetail{Type: "INTERNAL_ERROR", Message: "panic: oh no", Code: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Detail())
		})
	}
}

func TestErrorResponseFrom(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		wantType string
		wantCode int
	}{
		{name: "not found", err: &NotFoundError{Name: "x"}, wantType: "NOT_FOUND", wantCode: 404},
		{name: "wrapped not found", err: fmt.Errorf("call: %w", &NotFoundError{Name: "x"}), wantType: "NOT_FOUND", wantCode: 404},
		{name: "arity", err: &ArityMismatchError{Name: "sum", Want: 2, Got: 1}, wantType: "ARITY_MISMATCH", wantCode: 400},
		{name: "empty name", err: ErrEmptyName, wantType: "VALIDATION_ERROR", wantCode: 400},
		{name: "panic", err: &PanicError{Name: "sum", Value: "boom"}, wantType: "INTERNAL_ERROR", wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ErrorResponseFrom(tt.err)
			assert.Equal(t, tt.wantType, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestTypedErrors_Messages(t *testing.T) {
	assert.Equal(t, `duplicate function name: "sum"`, (&DuplicateNameError{Name: "sum"}).Error())
	assert.Equal(t, "unknown function: mul", (&NotFoundError{Name: "mul"}).Error())
	assert.Equal(t, `function "sum" takes 2 argument(s), got 3`,
		(&ArityMismatchError{Name: "sum", Want: 2, Got: 3}).Error())
}

func TestTypedErrors_DoNotCrossMatch(t *testing.T) {
	var err error = &NotFoundError{Name: "x"}
	assert.False(t, errors.Is(err, ErrArityMismatch))
	assert.False(t, errors.Is(err, ErrDuplicateName))
}

func TestPanicError(t *testing.T) {
	tests := []struct {
		panicValue any
		name       string
		wantMsg    string
	}{
		{name: "string panic", panicValue: "oops", wantMsg: `function "f" panicked: oops`},
		{name: "error panic", panicValue: errors.New("bad state"), wantMsg: `function "f" panicked: bad state`},
		{name: "other panic", panicValue: 42, wantMsg: `function "f" panicked: panic recovered`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &PanicError{Name: "f", Value: tt.panicValue}
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	cause := errors.New("cause")
	assert.ErrorIs(t, &PanicError{Value: cause}, cause)
	assert.Equal(t, "panic: oops", (&PanicError{Value: "oops"}).Error())
}
