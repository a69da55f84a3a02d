package transport

import "golang.org/x/time/rate"

// Throttle caps the combined action rate across all noise generators.
// A nil *Throttle admits everything, so callers need no guard.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle builds a Throttle admitting perSecond actions per second.
// Rates at or below zero mean unlimited and return nil.
func NewThrottle(perSecond float64) *Throttle {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow reports whether one more action may fire now. It never blocks:
// a capped generator skips its iteration instead of queueing, so
// generators cannot stall one another.
func (t *Throttle) Allow() bool {
	if t == nil {
		return true
	}
	return t.limiter.Allow()
}
