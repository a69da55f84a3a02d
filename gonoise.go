// Package gonoise generates synthetic network noise across DNS, HTTP,
// TCP and UDP so that real traffic is harder to single out.
package gonoise

import (
	"context"

	"github.com/gonoise/gonoise/core"
	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/interfaces"
	"github.com/gonoise/gonoise/pkg/logging"
)

// Engine represents the noise generation engine.
type Engine struct {
	coreEngine *core.Engine
}

// NewEngine creates a new noise engine from the given options. A nil
// logger selects the package default.
func NewEngine(opts *config.Options, logger logging.Logger) (interfaces.Engine, error) {
	coreEngine, err := core.New(opts, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{coreEngine: coreEngine}, nil
}

// Start launches the generator loops.
func (e *Engine) Start(ctx context.Context) error {
	return e.coreEngine.Start(ctx)
}

// Stop gracefully stops the engine.
func (e *Engine) Stop() error {
	return e.coreEngine.Stop()
}

// Status returns the current operational status of the engine.
func (e *Engine) Status() (string, error) {
	return e.coreEngine.Status()
}

// Snapshot returns per-protocol operation counters.
func (e *Engine) Snapshot() core.Snapshot {
	return e.coreEngine.Snapshot()
}
