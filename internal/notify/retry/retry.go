package retry

import (
	"math"
	"math/rand"
	"time"
)

// Policy controls exponential backoff between delivery attempts.
type Policy struct {
	BaseDelay    time.Duration
	MaxDelay     time.Duration // 0 = uncapped
	JitterFactor float64       // 0..1, fraction of the delay randomized
	MaxRetries   int
}

// DefaultPolicy matches the delays the booking flow has always used.
// MaxDelay and MaxRetries are left to configuration.
var DefaultPolicy = Policy{
	BaseDelay:    30 * time.Second,
	JitterFactor: 0.3,
}

// Delay computes the backoff before retry attempt retryCount:
// min(base * 2^retryCount, max), perturbed by ±(delay * jitter) with a
// uniform draw, clamped to >= 0 and rounded to whole seconds. The jitter
// keeps a provider outage from producing synchronized retry bursts.
func Delay(retryCount int, p Policy) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultPolicy.BaseDelay
	}
	if retryCount < 0 {
		retryCount = 0
	}

	d := float64(base) * math.Pow(2, float64(retryCount))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}

	if p.JitterFactor > 0 {
		d += d * p.JitterFactor * (2*rand.Float64() - 1)
	}
	if d < 0 {
		d = 0
	}

	return time.Duration(math.Round(d/float64(time.Second))) * time.Second
}

// NextAttempt returns the wall-clock time of the next retry.
func NextAttempt(now time.Time, retryCount int, p Policy) time.Time {
	return now.Add(Delay(retryCount, p))
}

// Exceeded reports whether the retry budget is spent.
func Exceeded(retryCount, maxRetries int) bool {
	return retryCount >= maxRetries
}
