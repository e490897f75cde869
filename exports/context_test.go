package exports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey string

func TestCallContext(t *testing.T) {
	base := context.WithValue(context.Background(), ctxKey("k"), "v")
	cc := NewCallContext(base, "sum")

	assert.Equal(t, "sum", cc.FunctionName())
	assert.Equal(t, "v", cc.Value(ctxKey("k")))

	_, ok := cc.GetValue("missing")
	assert.False(t, ok)

	cc.SetValue("start", 1)
	v, ok := cc.GetValue("start")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCallContextFrom(t *testing.T) {
	cc := NewCallContext(context.Background(), "sum")

	assert.Same(t, cc, CallContextFrom(cc, "sum"))
	assert.Equal(t, "factorial", CallContextFrom(cc, "factorial").FunctionName())
	assert.Equal(t, "sum", CallContextFrom(context.Background(), "sum").FunctionName())
}

func TestFunctionNameFrom(t *testing.T) {
	_, ok := FunctionNameFrom(context.Background())
	assert.False(t, ok)

	name, ok := FunctionNameFrom(NewCallContext(context.Background(), "sum"))
	assert.True(t, ok)
	assert.Equal(t, "sum", name)
}

func TestCallContextFrom_DerivedContextSharesValues(t *testing.T) {
	cc := NewCallContext(context.Background(), "sum")
	cc.SetValue("outer", "set")

	derived := context.WithValue(cc, ctxKey("span"), "s1")
	name, ok := FunctionNameFrom(derived)
	assert.True(t, ok)
	assert.Equal(t, "sum", name)

	inner := CallContextFrom(derived, "sum")
	assert.NotSame(t, cc, inner)
	assert.Equal(t, "s1", inner.Value(ctxKey("span")))

	v, ok := inner.GetValue("outer")
	assert.True(t, ok)
	assert.Equal(t, "set", v)

	inner.SetValue("inner", "seen")
	v, ok = cc.GetValue("inner")
	assert.True(t, ok)
	assert.Equal(t, "seen", v)

	other := CallContextFrom(derived, "factorial")
	_, ok = other.GetValue("outer")
	assert.False(t, ok)
}

func TestRegistry_ValuesSurviveContextWrapping(t *testing.T) {
	var got any
	setter := func(next Invoker) Invoker {
		return func(ctx context.Context, args []int32) (int32, error) {
			ctx.(CallContext).SetValue("request_id", "r-42")
			return next(ctx, args)
		}
	}
	wrapper := func(next Invoker) Invoker {
		return func(ctx context.Context, args []int32) (int32, error) {
			name, _ := FunctionNameFrom(ctx)
			derived := context.WithValue(ctx, ctxKey("wrapped"), true)
			return next(CallContextFrom(derived, name), args)
		}
	}
	reader := func(next Invoker) Invoker {
		return func(ctx context.Context, args []int32) (int32, error) {
			got, _ = ctx.(CallContext).GetValue("request_id")
			return next(ctx, args)
		}
	}

	reg, err := NewRegistry(
		WithMiddleware(setter, wrapper, reader),
		WithFunction("sum", Binary(func(a, b int32) int32 { return a + b })),
	)
	require.NoError(t, err)

	result, err := reg.Invoke(context.Background(), "sum", 2, 3)
	assert.NoError(t, err)
	assert.Equal(t, int32(5), result)
	assert.Equal(t, "r-42", got)
}
