// Package throttle spaces outbound HTTP calls with a randomized delay so
// the sync stays under partner API quotas without a fixed, detectable
// cadence.
package throttle

import (
	"math/rand"
	"time"
)

// Intervals used across the sync, matching the partner quotas each endpoint
// tolerates: Shopify listing pages at most 12 requests/minute, Etsy and CDN
// uploads at most 20 requests/minute.
var (
	ListingPage = Interval{5 * time.Second, 15 * time.Second}
	APICall     = Interval{3 * time.Second, 5 * time.Second}
	Upload      = Interval{3 * time.Second, 5 * time.Second}
)

// Interval bounds the randomized delay.
type Interval struct {
	Min time.Duration
	Max time.Duration
}

// Throttle blocks callers for a uniform-random duration within its interval.
// A nil *Throttle waits nothing, which keeps tests fast.
type Throttle struct {
	interval Interval
	sleep    func(time.Duration)
	randFn   func() float64
}

// New builds a throttle over the given interval.
func New(interval Interval) *Throttle {
	return &Throttle{
		interval: interval,
		sleep:    time.Sleep,
		randFn:   rand.Float64,
	}
}

// Wait blocks for a duration drawn uniformly from the interval. Throttling
// is serial: one call per outbound request, no fan-out.
func (t *Throttle) Wait() {
	if t == nil {
		return
	}
	span := t.interval.Max - t.interval.Min
	d := t.interval.Min
	if span > 0 {
		d += time.Duration(t.randFn() * float64(span))
	}
	t.sleep(d)
}
