// Package obs — metrics.go
//
// Prometheus metrics for fbas-analyzer.
//
// Endpoint: GET /metrics on the configured address (e.g. 127.0.0.1:9091).
// All metrics are registered on a dedicated prometheus.Registry, never the
// default global registry, to avoid collisions with other instrumented
// libraries in the same process.
//
// Metric naming convention: fbas_analyzer_<subsystem>_<name>_<unit>

package obs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metric descriptors for fbas-analyzer.
type Metrics struct {
	registry *prometheus.Registry

	// ─── Quorum predicate ──────────────────────────────────────────────────

	// QuorumChecksTotal counts IsQuorum evaluations.
	QuorumChecksTotal prometheus.Counter

	// QuorumCheckDuration records IsQuorum evaluation latency.
	QuorumCheckDuration prometheus.Histogram

	// ─── Enumeration ───────────────────────────────────────────────────────

	// MinimalQuorumsFound is the size of the last GetMinimalQuorums result.
	MinimalQuorumsFound prometheus.Gauge

	// EnumerationDuration records GetMinimalQuorums latency.
	EnumerationDuration prometheus.Histogram

	// IntersectionResult is 1 if the last HasQuorumIntersection call
	// returned true, 0 otherwise.
	IntersectionResult prometheus.Gauge

	// ─── Simulation ────────────────────────────────────────────────────────

	// SimulationNodesAddedTotal counts nodes appended across all runs.
	SimulationNodesAddedTotal prometheus.Counter

	// SimulationStabilizePasses records the number of passes a single node
	// addition took to reach a fixpoint.
	SimulationStabilizePasses prometheus.Histogram

	// SimulationNonConvergenceTotal counts stabilization failures.
	SimulationNonConvergenceTotal prometheus.Counter
}

// NewMetrics creates and registers all fbas-analyzer Prometheus metrics on
// a fresh, dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		QuorumChecksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "quorum",
			Name:      "checks_total",
			Help:      "Total IsQuorum evaluations performed.",
		}),
		QuorumCheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "quorum",
			Name:      "check_duration_seconds",
			Help:      "IsQuorum evaluation latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		MinimalQuorumsFound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "enumeration",
			Name:      "minimal_quorums_found",
			Help:      "Number of minimal quorums found by the last GetMinimalQuorums call.",
		}),
		EnumerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "enumeration",
			Name:      "duration_seconds",
			Help:      "GetMinimalQuorums latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}),
		IntersectionResult: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "enumeration",
			Name:      "intersection_result",
			Help:      "1 if the last HasQuorumIntersection call returned true, else 0.",
		}),
		SimulationNodesAddedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "simulation",
			Name:      "nodes_added_total",
			Help:      "Total nodes appended across all simulation runs.",
		}),
		SimulationStabilizePasses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "simulation",
			Name:      "stabilize_passes",
			Help:      "Number of configure passes a node addition took to reach a fixpoint.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		}),
		SimulationNonConvergenceTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fbas_analyzer",
			Subsystem: "simulation",
			Name:      "nonconvergence_total",
			Help:      "Total stabilization failures (iteration cap exceeded).",
		}),
	}

	reg.MustRegister(
		m.QuorumChecksTotal,
		m.QuorumCheckDuration,
		m.MinimalQuorumsFound,
		m.EnumerationDuration,
		m.IntersectionResult,
		m.SimulationNodesAddedTotal,
		m.SimulationStabilizePasses,
		m.SimulationNonConvergenceTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

// ServeMetrics starts the Prometheus HTTP metrics server on addr. Blocks
// until ctx is cancelled or the server fails. Serves GET /metrics and
// GET /healthz.
func (m *Metrics) ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	}
	return nil
}
