package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Helper call outcomes used as the status label.
const (
	StatusOK              = "ok"
	StatusBindingError    = "binding_error"
	StatusInvocationError = "invocation_error"
)

// Collector records helper bridge metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry prometheus.Registerer

	helperCalls    *prometheus.CounterVec
	helperDuration *prometheus.HistogramVec
	registrations  prometheus.Counter
}

// NewCollector creates the bridge metrics under namespace and registers them
// with reg. A nil reg uses a fresh private registry, which keeps repeated
// construction (tests, multiple instances) free of duplicate registration panics.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		helperCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "helper_calls_total",
				Help:      "Total number of template helper calls",
			},
			[]string{"helper", "status"},
		),
		helperDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "helper_call_duration_seconds",
				Help:      "Template helper call duration in seconds, binding included",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"helper"},
		),
		registrations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "helper_registrations_total",
				Help:      "Total number of helpers registered with template engines",
			},
		),
	}
}

// ObserveHelperCall records one helper call with its outcome.
func (c *Collector) ObserveHelperCall(helper, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.helperCalls.WithLabelValues(helper, status).Inc()
	c.helperDuration.WithLabelValues(helper).Observe(d.Seconds())
}

// AddRegistrations records n helper registrations.
func (c *Collector) AddRegistrations(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.registrations.Add(float64(n))
}

// Registerer returns the registry the metrics were registered with.
func (c *Collector) Registerer() prometheus.Registerer {
	if c == nil {
		return nil
	}
	return c.registry
}
