package rdap

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultRateLimit is the default outbound RDAP query rate per second.
const DefaultRateLimit = 10

// Limiter is a token bucket shared by every RDAP query in one Verify call:
// capacity equals the per-second rate, tokens accrue continuously and are
// clamped to capacity. It decouples query fan-out from egress rate — any
// number of workers may be parked in Acquire at once.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter builds a limiter admitting perSecond queries per second.
// Values below 1 fall back to DefaultRateLimit.
func NewLimiter(perSecond int) *Limiter {
	if perSecond < 1 {
		perSecond = DefaultRateLimit
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perSecond), perSecond)}
}

// Acquire blocks until a token is available or ctx is done, then debits
// the bucket. Waiters are released one per accrued token.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}
