// Package core drives the noise generators: it turns validated
// options into running protocol loops, tracks their output, and shuts
// them down within a bounded wait.
package core

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/core/metrics"
	"github.com/gonoise/gonoise/core/noise"
	"github.com/gonoise/gonoise/core/transport"
	"github.com/gonoise/gonoise/pkg/logging"
)

const (
	// statsInterval is how often the reporter drains a window.
	statsInterval = 10 * time.Second

	// taskStopTimeout bounds how long Stop waits for each task.
	taskStopTimeout = time.Second

	dialTimeout       = 5 * time.Second
	keepAlive         = 30 * time.Second
	httpClientTimeout = 10 * time.Second
)

// task is one background goroutine the engine owns.
type task struct {
	name string
	done chan struct{}
}

// Engine owns the generator loops for one noise run.
type Engine struct {
	mu      sync.Mutex
	opts    *config.Options
	profile config.Profile
	logger  logging.Logger
	runID   string

	stats     *Stats
	collector *metrics.Collector
	metricsrv *metrics.Server

	// generators overrides the set built from options when non-nil,
	// for tests.
	generators []noise.Generator

	cancel  context.CancelFunc
	tasks   []*task
	started time.Time
}

// New validates opts and prepares an engine. Nothing runs until Start.
func New(opts *config.Options, logger logging.Logger) (*Engine, error) {
	if opts == nil {
		return nil, fmt.Errorf("engine requires options")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	profile, err := opts.Profile()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	e := &Engine{
		opts:    opts,
		profile: profile,
		runID:   uuid.NewString(),
		stats:   NewStats(),
	}
	e.logger = logger.With("component", "engine", "run_id", e.runID)
	if opts.MetricsAddr != "" {
		e.collector = metrics.NewCollector(e.runID)
	}
	return e, nil
}

// RunID returns this engine's run identifier.
func (e *Engine) RunID() string { return e.runID }

// Start launches one loop per enabled protocol plus the stats
// reporter. It returns config.ErrNothingEnabled when no protocol is
// switched on, and errors when the engine is already running. The
// loops stop when ctx is canceled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return fmt.Errorf("noise engine is already running")
	}

	enabled := e.opts.EnabledProtocols()
	if len(enabled) == 0 {
		return config.ErrNothingEnabled
	}

	gens := e.generators
	if gens == nil {
		dialer, err := transport.NewDialer(&transport.Config{
			DialTimeout: dialTimeout,
			KeepAlive:   keepAlive,
			SOCKS5Addr:  e.opts.SOCKS5Addr,
		})
		if err != nil {
			return fmt.Errorf("failed to build egress dialer: %w", err)
		}
		gens = e.buildGenerators(dialer)
	}
	throttle := transport.NewThrottle(e.opts.MaxRate)

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.started = time.Now()
	e.tasks = nil

	for _, gen := range gens {
		loop := &noise.Loop{
			Gen:       gen,
			Profile:   e.profile,
			Intensity: e.opts.Intensity,
			TorMode:   e.opts.TorMode,
			Throttle:  throttle,
			Recorder:  e,
			Logger:    e.logger,
		}
		e.spawn("noise-"+string(gen.Protocol()), func() { loop.Run(runCtx) })
	}
	e.spawn("stats-reporter", func() { e.reportStats(runCtx) })

	if e.opts.MetricsAddr != "" {
		e.metricsrv = metrics.NewServer(e.opts.MetricsAddr, e.collector, e.logger)
		e.metricsrv.Start()
	}

	e.logger.Info("noise engine started",
		"pattern", e.profile.Name,
		"intensity", e.opts.Intensity,
		"protocols", enabled,
		"tor_mode", e.opts.TorMode)
	return nil
}

// Stop cancels the run and waits up to taskStopTimeout for each task
// to exit. Wedged tasks are logged and abandoned rather than waited
// on. Stop is idempotent; calls on a stopped engine return nil.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel == nil {
		return nil
	}
	e.logger.Info("noise engine stopping")
	e.cancel()
	e.cancel = nil

	for _, t := range e.tasks {
		select {
		case <-t.done:
		case <-time.After(taskStopTimeout):
			e.logger.Warn("task did not stop in time", "task", t.name)
		}
	}
	e.tasks = nil

	if e.metricsrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), taskStopTimeout)
		if err := e.metricsrv.Stop(shutdownCtx); err != nil {
			e.logger.Warn("metrics endpoint shutdown failed", "error", err)
		}
		cancel()
		e.metricsrv = nil
	}

	total := e.stats.Snapshot().Total()
	e.logger.Info("noise engine stopped",
		"total_ops", total.Ops, "total_failures", total.Failures)
	return nil
}

// Status reports whether the engine is running and how much it has
// produced.
func (e *Engine) Status() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel == nil {
		return "noise engine stopped", nil
	}
	total := e.stats.Snapshot().Total()
	return fmt.Sprintf("noise engine running (pattern=%s, ops=%d)", e.profile.Name, total.Ops), nil
}

// Snapshot copies the per-protocol counters.
func (e *Engine) Snapshot() Snapshot {
	return e.stats.Snapshot()
}

// Record implements noise.Recorder, fanning out to the stats counters
// and the optional Prometheus collector.
func (e *Engine) Record(proto config.Protocol, attemptErr error) {
	e.stats.Record(proto, attemptErr)
	if e.collector != nil {
		e.collector.Record(proto, attemptErr)
	}
}

// spawn starts fn as a named task. Callers must hold e.mu.
func (e *Engine) spawn(name string, fn func()) {
	t := &task{name: name, done: make(chan struct{})}
	e.tasks = append(e.tasks, t)
	go func() {
		defer close(t.done)
		fn()
	}()
}

// buildGenerators assembles one generator per enabled protocol, all
// sharing the egress dialer.
func (e *Engine) buildGenerators(dialer transport.Dialer) []noise.Generator {
	var gens []noise.Generator
	for _, proto := range config.Protocols() {
		if !e.opts.EnabledFor(proto) {
			continue
		}
		switch proto {
		case config.ProtocolDNS:
			gens = append(gens, noise.NewDNSGenerator(noise.DNSConfig{
				Server: e.opts.Resolver,
			}))
		case config.ProtocolHTTP:
			client := &http.Client{
				Timeout: httpClientTimeout,
				Transport: &http.Transport{
					DialContext:         dialer,
					TLSHandshakeTimeout: 10 * time.Second,
					MaxIdleConns:        10,
					IdleConnTimeout:     30 * time.Second,
					TLSClientConfig: &tls.Config{
						MinVersion: tls.VersionTLS12,
					},
				},
			}
			gens = append(gens, noise.NewHTTPGenerator(noise.HTTPConfig{
				Client: client,
			}))
		case config.ProtocolTCP:
			gens = append(gens, noise.NewTCPGenerator(noise.TCPConfig{
				Dial:       dialer,
				Camouflage: e.opts.TLSCamouflage,
			}))
		case config.ProtocolUDP:
			gens = append(gens, noise.NewUDPGenerator(noise.UDPConfig{}))
		}
	}
	return gens
}

// reportStats drains and logs a traffic window every statsInterval.
func (e *Engine) reportStats(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			window := e.stats.DrainWindow()
			total := e.stats.Snapshot().Total()

			kv := make([]interface{}, 0, 2*len(window)+6)
			for _, proto := range config.Protocols() {
				kv = append(kv, string(proto)+"_ops", window[proto].Ops)
			}
			kv = append(kv,
				"window_failures", window.Total().Failures,
				"total_ops", total.Ops,
				"uptime", time.Since(e.started).Round(time.Second).String())
			e.logger.Debug("traffic stats", kv...)
		}
	}
}
