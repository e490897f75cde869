package exports

import (
	"context"
	"log/slog"
	"time"
)

// Middleware is a function that wraps an Invoker to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	countingMiddleware := func(next exports.Invoker) exports.Invoker {
//	    return func(ctx context.Context, args []int32) (int32, error) {
//	        calls.Add(1)
//	        return next(ctx, args)
//	    }
//	}
type Middleware func(next Invoker) Invoker

// PanicRecoveryMiddleware returns a middleware that converts a panicking
// implementation into a *PanicError instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, args []int32) (result int32, err error) {
			defer func() {
				if r := recover(); r != nil {
					name, _ := FunctionNameFrom(ctx)
					result = 0
					err = &PanicError{Name: name, Value: r}
				}
			}()
			return next(ctx, args)
		}
	}
}

// LoggingMiddleware returns a middleware that logs every invocation at debug
// level and failures at warn level. A nil logger uses slog.Default().
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, args []int32) (int32, error) {
			l := logger
			if l == nil {
				l = slog.Default()
			}
			funcName, ok := FunctionNameFrom(ctx)
			if !ok {
				funcName = "unknown"
			}

			start := time.Now()
			result, err := next(ctx, args)
			if err != nil {
				l.WarnContext(ctx, "function invocation failed",
					"function", funcName, "args", args, "error", err)
				return result, err
			}
			l.DebugContext(ctx, "function invoked",
				"function", funcName, "args", args, "result", result,
				"duration", time.Since(start))
			return result, nil
		}
	}
}
