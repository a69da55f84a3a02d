package noise

import (
	"context"
	"time"

	"github.com/gonoise/gonoise/core/config"
	"github.com/gonoise/gonoise/core/transport"
	"github.com/gonoise/gonoise/pkg/logging"
)

const (
	// gateBackoff is the pause after a skipped iteration before the
	// gate is rolled again.
	gateBackoff = 100 * time.Millisecond

	// torPacingFloor is the minimum pause between actions in tor mode.
	torPacingFloor = 1 * time.Second
)

// Generator produces one protocol's worth of noise. Attempt performs a
// single network operation and reports its outcome; implementations
// must honor ctx cancellation.
type Generator interface {
	Protocol() config.Protocol
	Attempt(ctx context.Context) error
}

// Recorder receives the outcome of every completed attempt.
type Recorder interface {
	Record(proto config.Protocol, attemptErr error)
}

// Loop drives one Generator: roll the gate, act, record the outcome,
// pause. Attempt failures are recorded and never escalate. The loop
// exits only when ctx is canceled.
type Loop struct {
	Gen       Generator
	Profile   config.Profile
	Intensity float64
	TorMode   bool
	Rand      Rand
	Throttle  *transport.Throttle
	Recorder  Recorder
	Logger    logging.Logger
}

// Run blocks until ctx is canceled.
func (l *Loop) Run(ctx context.Context) {
	rnd := l.Rand
	if rnd == nil {
		rnd = CryptoRand()
	}
	logger := l.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	proto := l.Gen.Protocol()
	logger = logger.With("protocol", string(proto))
	logger.Debug("generator loop starting",
		"ratio", l.Profile.RatioFor(proto), "intensity", l.Intensity)

	for ctx.Err() == nil {
		if !l.admit(rnd) || !l.Throttle.Allow() {
			sleepCtx(ctx, gateBackoff)
			continue
		}

		err := l.Gen.Attempt(ctx)
		if err != nil && ctx.Err() != nil {
			// Failures after cancellation are shutdown artifacts,
			// not traffic.
			break
		}
		if l.Recorder != nil {
			l.Recorder.Record(proto, err)
		}
		if err != nil {
			logger.Debug("attempt failed", "error", err)
		}

		sleepCtx(ctx, l.pause(rnd))
	}
	logger.Debug("generator loop stopped")
}

// admit rolls the gate for one iteration. Ratios scaled past 1.0 by
// intensity admit every draw.
func (l *Loop) admit(rnd Rand) bool {
	return rnd.Float64() <= l.Profile.RatioFor(l.Gen.Protocol())*l.Intensity
}

// pause computes the next inter-action delay: uniform over the profile
// window, divided by intensity, floored at one second in tor mode.
func (l *Loop) pause(rnd Rand) time.Duration {
	span := float64(l.Profile.DelayMax - l.Profile.DelayMin)
	d := l.Profile.DelayMin + time.Duration(rnd.Float64()*span)
	d = time.Duration(float64(d) / l.Intensity)
	if l.TorMode && d < torPacingFloor {
		d = torPacingFloor
	}
	return d
}

// sleepCtx pauses for d unless ctx is canceled first. It reports
// whether the full pause elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
