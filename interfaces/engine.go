package interfaces

import (
	"context"

	"github.com/gonoise/gonoise/core"
)

// Engine defines the public interface for the noise engine.
type Engine interface {
	// Start launches the generator loops. They run until ctx is
	// canceled or Stop is called.
	Start(ctx context.Context) error
	// Stop gracefully stops the engine within a bounded wait.
	Stop() error
	// Status returns the current operational status of the engine.
	Status() (string, error)
	// Snapshot returns per-protocol operation counters.
	Snapshot() core.Snapshot
}
