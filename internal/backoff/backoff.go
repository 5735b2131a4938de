package backoff

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrMaxRetries is returned by Next once the configured retry budget is
// exhausted. It is terminal: further calls keep returning it until Reset.
var ErrMaxRetries = errors.New("backoff: retry budget exhausted")

// attemptCap bounds the exponent so the doubling never overflows.
const attemptCap = 30

// Policy computes the delay before each reconnect attempt.
//
// The raw delay for attempt n is min(Max, Base * 2^n), with n capped at 30.
// Symmetric jitter of up to JitterRatio*raw is added, and the result is
// clamped at zero, so every delay lies in [0, Max*(1+JitterRatio)].
// Not safe for concurrent use.
type Policy struct {
	Base        time.Duration // Delay for attempt 0
	Max         time.Duration // Cap on the un-jittered delay
	JitterRatio float64       // Fraction of the raw delay used as jitter span
	MaxRetries  int           // Attempts before ErrMaxRetries; 0 = unbounded

	// Rand returns a uniform value in [0, 1). Nil uses math/rand/v2.
	Rand func() float64

	attempt int
}

// Attempt returns the number of delays handed out since the last Reset.
func (p *Policy) Attempt() int {
	return p.attempt
}

// Reset clears the attempt counter. Call after every successful connection.
func (p *Policy) Reset() {
	p.attempt = 0
}

// Next returns the delay before the upcoming attempt and advances the
// counter. Once MaxRetries delays have been handed out it returns
// ErrMaxRetries instead.
func (p *Policy) Next() (time.Duration, error) {
	if p.MaxRetries > 0 && p.attempt >= p.MaxRetries {
		return 0, ErrMaxRetries
	}

	exp := p.attempt
	if exp > attemptCap {
		exp = attemptCap
	}
	raw := float64(p.Base) * math.Pow(2, float64(exp))
	if ceil := float64(p.Max); raw > ceil {
		raw = ceil
	}

	u := rand.Float64
	if p.Rand != nil {
		u = p.Rand
	}
	delay := raw + raw*p.JitterRatio*(2*u()-1)
	if delay < 0 {
		delay = 0
	}

	p.attempt++
	return time.Duration(delay), nil
}
