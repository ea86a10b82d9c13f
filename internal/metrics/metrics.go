// Package metrics holds the Prometheus collectors exported on /metrics.
//
// All recording methods are safe to call on a nil *Metrics, which lets tests
// and tools construct repositories and services without a registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "onbeventi"

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	repositoryOps      *prometheus.CounterVec
	capacityRejections prometheus.Counter
	eventsStored       prometheus.Gauge
	descriptions       *prometheus.CounterVec
	rpcDuration        *prometheus.HistogramVec
	snapshots          *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		repositoryOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "operations_total",
			Help:      "Repository operations by operation and result.",
		}, []string{"operation", "result"}),
		capacityRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "capacity_rejections_total",
			Help:      "Attendee registrations refused because the event was full.",
		}),
		eventsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "events",
			Help:      "Number of events in the collection after the last flush.",
		}),
		descriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "describe",
			Name:      "generations_total",
			Help:      "Description generation attempts by outcome.",
		}, []string{"outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "Connect RPC latency by procedure and code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backup",
			Name:      "snapshots_total",
			Help:      "Snapshot runs by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.repositoryOps,
		m.capacityRejections,
		m.eventsStored,
		m.descriptions,
		m.rpcDuration,
		m.snapshots,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func (m *Metrics) ObserveRepository(operation string, err error) {
	if m == nil {
		return
	}
	m.repositoryOps.WithLabelValues(operation, result(err)).Inc()
}

func (m *Metrics) CapacityRejected() {
	if m == nil {
		return
	}
	m.capacityRejections.Inc()
}

func (m *Metrics) SetEventCount(n int) {
	if m == nil {
		return
	}
	m.eventsStored.Set(float64(n))
}

func (m *Metrics) ObserveDescription(outcome string) {
	if m == nil {
		return
	}
	m.descriptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSnapshot(err error) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(result(err)).Inc()
}
