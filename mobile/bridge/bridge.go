// Package bridge provides a gomobile-compatible wrapper around the core
// gonoise library. Native callers configure the engine with a small JSON
// document and receive lifecycle transitions through StatusUpdater.
package bridge

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gonoise/gonoise"
	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/interfaces"
	"github.com/gonoise/gonoise/pkg/logging"
)

var (
	mu     sync.Mutex
	engine interfaces.Engine
)

// StatusUpdater is implemented by native mobile code to receive status
// updates from the Go library.
type StatusUpdater interface {
	// OnStatusUpdate is called with a status string (STARTING, RUNNING,
	// STOPPED, ERROR) and a descriptive message.
	OnStatusUpdate(status, message string)
}

// Config is the JSON document accepted by StartNoise. Zero values fall
// back to the library defaults.
type Config struct {
	DNSNoise  bool    `json:"dns_noise"`
	HTTPFlood bool    `json:"http_flood"`
	TCPNoise  bool    `json:"tcp_noise"`
	UDPNoise  bool    `json:"udp_noise"`
	Pattern   string  `json:"pattern"`
	Intensity float64 `json:"intensity"`
	TorMode   bool    `json:"tor_mode"`
}

// StartNoise configures and starts the noise engine. Errors are
// reported through the updater rather than returned, so native callers
// only need the callback path.
func StartNoise(configJSON string, updater StatusUpdater) {
	mu.Lock()
	defer mu.Unlock()

	if engine != nil {
		updater.OnStatusUpdate("ERROR", "Noise engine already running")
		return
	}

	cfg := Config{Pattern: config.DefaultPattern, Intensity: config.DefaultIntensity}
	if configJSON != "" {
		if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
			updater.OnStatusUpdate("ERROR", "Invalid configuration: "+err.Error())
			return
		}
	}

	opts := &config.Options{
		DNSNoise:  cfg.DNSNoise,
		HTTPFlood: cfg.HTTPFlood,
		TCPNoise:  cfg.TCPNoise,
		UDPNoise:  cfg.UDPNoise,
		Pattern:   cfg.Pattern,
		Intensity: cfg.Intensity,
		TorMode:   cfg.TorMode,
	}

	updater.OnStatusUpdate("STARTING", "Starting noise generation...")

	eng, err := gonoise.NewEngine(opts, logging.GetLogger())
	if err != nil {
		updater.OnStatusUpdate("ERROR", "Invalid configuration: "+err.Error())
		return
	}

	if err := eng.Start(context.Background()); err != nil {
		updater.OnStatusUpdate("ERROR", "Failed to start noise engine: "+err.Error())
		return
	}

	engine = eng
	updater.OnStatusUpdate("RUNNING", "Noise generation running")
}

// StopNoise stops the noise engine.
func StopNoise(updater StatusUpdater) {
	mu.Lock()
	defer mu.Unlock()

	if engine == nil {
		updater.OnStatusUpdate("ERROR", "Noise engine not running")
		return
	}

	err := engine.Stop()
	engine = nil
	if err != nil {
		updater.OnStatusUpdate("ERROR", "Failed to stop noise engine: "+err.Error())
		return
	}

	updater.OnStatusUpdate("STOPPED", "Noise generation stopped")
}

// NoiseStatus returns a human-readable description of the engine state.
func NoiseStatus() string {
	mu.Lock()
	defer mu.Unlock()

	if engine == nil {
		return "noise engine stopped"
	}
	status, err := engine.Status()
	if err != nil {
		return "status unavailable: " + err.Error()
	}
	return status
}
