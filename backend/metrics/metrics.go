// ABOUTME: Prometheus instrumentation for synthesis, HTTP traffic, and store operations
// ABOUTME: Owns a private registry exposed at /metrics

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/markalston/fabric-designer/backend/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fabric_designer"

// Metrics holds the service's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	synthesisTotal    *prometheus.CounterVec
	synthesisDuration prometheus.Histogram
	unplacedPorts     prometheus.Counter
	httpRequests      *prometheus.CounterVec
	storeOperations   *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		synthesisTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_total",
			Help:      "Topology synthesis runs, by whether any fabric was degraded.",
		}, []string{"degraded"}),
		synthesisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_duration_seconds",
			Help:      "Time spent synthesizing a topology.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		unplacedPorts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unplaced_server_ports_total",
			Help:      "Server ports left unconnected because switches ran out of capacity.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method, and status code.",
		}, []string{"route", "method", "status"}),
		storeOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Project store operations by operation and result.",
		}, []string{"op", "result"}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.synthesisTotal,
		m.synthesisDuration,
		m.unplacedPorts,
		m.httpRequests,
		m.storeOperations,
	)
	return m
}

// ObserveSynthesis records one engine run.
func (m *Metrics) ObserveSynthesis(elapsed time.Duration, graph models.TopologyGraph) {
	if m == nil {
		return
	}
	m.synthesisTotal.WithLabelValues(strconv.FormatBool(graph.Degraded())).Inc()
	m.synthesisDuration.Observe(elapsed.Seconds())
	for _, f := range graph.Fabrics {
		m.unplacedPorts.Add(float64(f.UnplacedServerPorts))
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// ObserveStore records a store operation. It matches store.ObserveFunc.
func (m *Metrics) ObserveStore(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOperations.WithLabelValues(op, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
