package exports

import (
	"context"
)

// CallContext wraps a standard context.Context with invocation-specific helpers.
// It exposes the invoked function name and lets middleware share request-scoped
// values without polluting the standard context.
type CallContext interface {
	context.Context

	// FunctionName returns the name of the function being invoked.
	FunctionName() string

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing CallContext.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

// callContextKey lets a CallContext be found again after middleware wraps
// it in a derived context.
type callContextKey struct{}

type callContext struct {
	context.Context
	values   map[any]any
	funcName string
}

// NewCallContext creates a new CallContext wrapping the given context.
func NewCallContext(ctx context.Context, funcName string) CallContext {
	return &callContext{
		Context:  ctx,
		funcName: funcName,
		values:   make(map[any]any),
	}
}

func (c *callContext) Value(key any) any {
	if key == (callContextKey{}) {
		return c
	}
	return c.Context.Value(key)
}

func (c *callContext) FunctionName() string {
	return c.funcName
}

func (c *callContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *callContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// CallContextFrom returns ctx itself when it is already a CallContext for
// funcName. When ctx was derived from such a CallContext (for example by a
// middleware adding a span), the result wraps ctx and shares the values set
// so far. Otherwise it returns a fresh CallContext wrapping ctx.
func CallContextFrom(ctx context.Context, funcName string) CallContext {
	if cc, ok := ctx.(CallContext); ok && cc.FunctionName() == funcName {
		return cc
	}
	if parent, ok := ctx.Value(callContextKey{}).(*callContext); ok && parent.funcName == funcName {
		return &callContext{Context: ctx, funcName: funcName, values: parent.values}
	}
	return NewCallContext(ctx, funcName)
}

// FunctionNameFrom returns the invoked function name if ctx is, or was
// derived from, a CallContext.
func FunctionNameFrom(ctx context.Context) (string, bool) {
	if cc, ok := ctx.(CallContext); ok {
		return cc.FunctionName(), true
	}
	if parent, ok := ctx.Value(callContextKey{}).(*callContext); ok {
		return parent.funcName, true
	}
	return "", false
}
