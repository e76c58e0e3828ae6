package di

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	buildDuration prometheus.Histogram
	components    prometheus.Gauge
	failures      *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ioc_container_build_duration_seconds",
				Help:    "Time taken to build a container, from graph construction to the last instance.",
				Buckets: prometheus.DefBuckets,
			},
		),
		components: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ioc_container_components",
				Help: "Number of singletons held by the most recently built container.",
			},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ioc_container_build_failures_total",
				Help: "Number of container builds that failed, by reason.",
			},
			[]string{"reason"},
		),
	}

	var err error
	if m.buildDuration, err = register(reg, m.buildDuration); err != nil {
		return nil, err
	}
	if m.components, err = register(reg, m.components); err != nil {
		return nil, err
	}
	if m.failures, err = register(reg, m.failures); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) succeeded(started time.Time, components int) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(time.Since(started).Seconds())
	m.components.Set(float64(components))
}

func (m *metrics) failed(started time.Time, err error) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(time.Since(started).Seconds())
	m.failures.WithLabelValues(reason(err)).Inc()
}

// reason maps a build error to a low-cardinality label value.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrCycleDetected):
		return "cycle"
	case errors.Is(err, ErrUnresolvedDependency):
		return "unresolved_dependency"
	case errors.Is(err, ErrAmbiguousConstructor):
		return "ambiguous_constructor"
	case errors.Is(err, ErrConstructionFailed):
		return "construction_failed"
	case errors.Is(err, ErrInvalidDescriptor), errors.Is(err, ErrDuplicateComponent):
		return "invalid_descriptor"
	default:
		return "unknown"
	}
}
