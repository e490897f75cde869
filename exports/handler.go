package exports

import (
	"context"
	"fmt"

	"github.com/reglet-dev/nativefn/wireformat"
)

// ByteHandler accepts an encoded request and returns an encoded response.
// This is the common interface byte transports (stdin, sockets, guest memory)
// can easily use.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewByteHandler exposes reg over an encoded wireformat.InvokeRequest /
// wireformat.InvokeResponse exchange. Registry and decoding failures are
// reported inside the response; a Go error is returned only when the
// response itself cannot be encoded.
//
// Usage:
//
//	handler := exports.NewByteHandler(reg, wireformat.JSON())
//	resp, err := handler(ctx, []byte(`{"function":"sum","args":[2,3]}`))
//	// resp == {"result":5}
func NewByteHandler(reg *Registry, codec wireformat.Codec) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req wireformat.InvokeRequest
		if err := codec.Unmarshal(payload, &req); err != nil {
			return encodeResponse(codec, failure(NewValidationError(
				fmt.Sprintf("failed to unmarshal request: %v", err))))
		}
		if req.Function == "" {
			return encodeResponse(codec, failure(NewValidationError(ErrEmptyName.Error())))
		}

		result, err := reg.Invoke(ctx, req.Function, req.Args...)
		if err != nil {
			return encodeResponse(codec, failure(ErrorResponseFrom(err)))
		}
		return encodeResponse(codec, wireformat.Success(result))
	}
}

func failure(e ErrorResponse) wireformat.InvokeResponse {
	return wireformat.Failure(e.Detail())
}

func encodeResponse(codec wireformat.Codec, resp wireformat.InvokeResponse) ([]byte, error) {
	data, err := codec.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return data, nil
}
