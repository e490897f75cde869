package metrics

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reglet-dev/nativefn/exports"
	"github.com/reglet-dev/nativefn/modules/arith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsOutcomes(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m, err := New(promReg, "nativefn")
	require.NoError(t, err)

	reg, err := exports.NewRegistry(
		exports.WithMiddleware(m.Middleware(), exports.PanicRecoveryMiddleware()),
		exports.WithModule(arith.Module()),
		exports.WithFunction("boom", exports.Nullary(func() int32 { panic("boom") })),
	)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = reg.Invoke(ctx, "sum", 2, 3)
	require.NoError(t, err)
	_, err = reg.Invoke(ctx, "sum", 2, 3)
	require.NoError(t, err)
	_, err = reg.Invoke(ctx, "sum", 2)
	require.Error(t, err)
	_, err = reg.Invoke(ctx, "boom")
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invocations.WithLabelValues("sum", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("sum", OutcomeArityMismatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("boom", OutcomePanic)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	expected := `
# HELP nativefn_invocations_total Total number of native function invocations
# TYPE nativefn_invocations_total counter
nativefn_invocations_total{function="boom",outcome="panic"} 1
nativefn_invocations_total{function="sum",outcome="arity_mismatch"} 1
nativefn_invocations_total{function="sum",outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(promReg, strings.NewReader(expected), "nativefn_invocations_total"))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	promReg := prometheus.NewRegistry()
	_, err := New(promReg, "nativefn")
	require.NoError(t, err)

	_, err = New(promReg, "nativefn")
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, outcome(nil))
	assert.Equal(t, OutcomeArityMismatch, outcome(&exports.ArityMismatchError{Name: "sum", Want: 2, Got: 1}))
	assert.Equal(t, OutcomePanic, outcome(&exports.PanicError{Value: "x"}))
	assert.Equal(t, OutcomeError, outcome(&exports.NotFoundError{Name: "x"}))
}
