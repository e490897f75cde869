// Package metrics records native function invocations in Prometheus.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reglet-dev/nativefn/exports"
)

// Outcome label values.
const (
	OutcomeOK            = "ok"
	OutcomeArityMismatch = "arity_mismatch"
	OutcomePanic         = "panic"
	OutcomeError         = "error"
)

// Metrics holds the invocation collectors.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates the collectors under namespace and registers them with reg.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Total number of native function invocations",
		}, []string{"function", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Time spent inside native function invocations",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 10, 8),
		}, []string{"function"}),
	}

	for _, c := range []prometheus.Collector{m.invocations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Middleware returns registry middleware that feeds the collectors.
func (m *Metrics) Middleware() exports.Middleware {
	return func(next exports.Invoker) exports.Invoker {
		return func(ctx context.Context, args []int32) (int32, error) {
			name, _ := exports.FunctionNameFrom(ctx)

			start := time.Now()
			result, err := next(ctx, args)
			m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			m.invocations.WithLabelValues(name, outcome(err)).Inc()
			return result, err
		}
	}
}

func outcome(err error) string {
	var pe *exports.PanicError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, exports.ErrArityMismatch):
		return OutcomeArityMismatch
	case errors.As(err, &pe):
		return OutcomePanic
	default:
		return OutcomeError
	}
}
