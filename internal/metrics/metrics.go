package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "frontend"

// Metrics holds the Prometheus collectors for the frontend on a registry of
// its own, so tests and multiple instances never collide on the default one.
type Metrics struct {
	registry         *prometheus.Registry
	received         prometheus.Counter
	responses        *prometheus.CounterVec
	duration         prometheus.Histogram
	upstreamFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_received_total",
			Help:      "Requests received on the public route.",
		}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Responses sent, by HTTP status code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from receiving a request to writing its response.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		upstreamFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Backend calls that ended in an error response.",
		}),
	}

	m.registry.MustRegister(
		m.received,
		m.responses,
		m.duration,
		m.upstreamFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) IncrementRequests() {
	m.received.Inc()
}

func (m *Metrics) RecordResponse(duration time.Duration, statusCode int) {
	m.responses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	m.duration.Observe(duration.Seconds())
}

func (m *Metrics) RecordUpstreamFailure() {
	m.upstreamFailures.Inc()
}

// Registry exposes the underlying registry for exporting and inspection.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
