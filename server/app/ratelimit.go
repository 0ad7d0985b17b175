package app

import (
	"sync"
	"time"

	"github.com/melodelete/autodelete/server/bot"
)

// RateLimitInfo is the rate-limit metadata attached to a delete-class
// response. The platform client parses it out of the response headers.
type RateLimitInfo struct {
	// Remaining calls in the current window.
	Remaining int
	// Limit is the number of calls per window.
	Limit int
	// ResetAfter is the number of seconds until the window resets.
	ResetAfter float64
}

// RateLimit tracks the pacing delay to apply before every delete-class call.
// It is shared by all deletions in a scan cycle and reset at cycle start, on
// the assumption that the limit may have changed or reset since the last one.
type RateLimit struct {
	mu    sync.Mutex
	delay time.Duration

	log bot.Logger
	obs Observer
}

func NewRateLimit(log bot.Logger, obs Observer) *RateLimit {
	if obs == nil {
		obs = NopObserver{}
	}
	return &RateLimit{log: log, obs: obs}
}

// Observe updates the pacing delay from one response's metadata. Only a
// response that exhausted the window (Remaining == 0) defines the limit; the
// reset time is assumed to apply equally to every request in the window, so
// the delay is reset_after divided by the per-window limit.
func (r *RateLimit) Observe(info RateLimitInfo) {
	if info.Remaining != 0 {
		return
	}
	if info.Limit == 0 {
		r.log.Warnf("rate-limit metadata suggests we cannot make any requests (limit=0); keeping delay")
		return
	}

	delay := time.Duration(info.ResetAfter / float64(info.Limit) * float64(time.Second))

	r.mu.Lock()
	r.delay = delay
	r.mu.Unlock()

	r.obs.PacingDelay(delay.Seconds())
	r.log.Infof("rate limit is now %v per delete call", delay)
}

// Delay returns the current pacing delay.
func (r *RateLimit) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delay
}

// Reset clears the delay. Called at the start of every scan cycle.
func (r *RateLimit) Reset() {
	r.mu.Lock()
	r.delay = 0
	r.mu.Unlock()
	r.obs.PacingDelay(0)
}
