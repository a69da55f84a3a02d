// Package metrics exposes per-protocol noise counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/pkg/logging"
)

// readHeaderTimeout bounds slow scrape clients.
const readHeaderTimeout = 5 * time.Second

// Collector owns a private registry so several engines in one process
// never fight over metric names.
type Collector struct {
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	failures *prometheus.CounterVec
	runInfo  *prometheus.GaugeVec
	runID    string
}

// NewCollector builds a collector stamped with the given run
// identifier. An empty runID draws a fresh one.
func NewCollector(runID string) *Collector {
	if runID == "" {
		runID = uuid.NewString()
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runID:    runID,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gonoise",
			Name:      "operations_total",
			Help:      "Noise operations completed, by protocol.",
		}, []string{"protocol"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gonoise",
			Name:      "failures_total",
			Help:      "Noise operations that returned an error, by protocol.",
		}, []string{"protocol"}),
		runInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gonoise",
			Name:      "run_info",
			Help:      "Constant 1, labeled with the run identifier.",
		}, []string{"run_id"}),
	}
	c.registry.MustRegister(c.ops, c.failures, c.runInfo)
	c.runInfo.WithLabelValues(c.runID).Set(1)

	// Materialize every protocol series so scrapes show zeros before
	// the first attempt.
	for _, p := range config.Protocols() {
		c.ops.WithLabelValues(string(p))
		c.failures.WithLabelValues(string(p))
	}
	return c
}

// RunID returns the identifier stamped on this run's series.
func (c *Collector) RunID() string { return c.runID }

// Record counts one attempt outcome. Completed operations and
// failures land in disjoint series, matching the engine's stats. It
// satisfies the generator loop's recorder contract.
func (c *Collector) Record(proto config.Protocol, attemptErr error) {
	if attemptErr != nil {
		c.failures.WithLabelValues(string(proto)).Inc()
		return
	}
	c.ops.WithLabelValues(string(proto)).Inc()
}

// Handler returns the scrape handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Server serves a collector's /metrics endpoint.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer wires the collector to an HTTP server on addr. Nothing
// listens until Start.
func NewServer(addr string, c *Collector, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetLogger()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger.With("component", "metrics"),
	}
}

// Start serves in the background. A failed listen is logged rather
// than returned: noise keeps flowing without a scrape endpoint.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics endpoint listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics endpoint failed", "error", err)
		}
	}()
}

// Stop shuts the endpoint down, honoring ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
