package discord

import (
	"net/http"
	"strconv"

	"github.com/melodelete/autodelete/server/app"
)

const (
	headerRemaining  = "X-RateLimit-Remaining"
	headerLimit      = "X-RateLimit-Limit"
	headerResetAfter = "X-RateLimit-Reset-After"
)

// observeRateLimit reports a delete-class response's rate-limit headers to
// the tracker. Missing or malformed headers keep the previous pacing delay;
// that is never fatal.
func (c *Client) observeRateLimit(resp *http.Response) {
	remainingRaw := resp.Header.Get(headerRemaining)
	limitRaw := resp.Header.Get(headerLimit)
	resetRaw := resp.Header.Get(headerResetAfter)

	if remainingRaw == "" || limitRaw == "" || resetRaw == "" {
		c.log.Warnf("no rate-limiting headers received in response to %s", resp.Request.Method)
		return
	}

	remaining, err1 := strconv.Atoi(remainingRaw)
	limit, err2 := strconv.Atoi(limitRaw)
	resetAfter, err3 := strconv.ParseFloat(resetRaw, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		c.log.Warnf("rate-limiting header values malformed (%s: %s; %s: %s; %s: %s)",
			headerResetAfter, resetRaw, headerLimit, limitRaw, headerRemaining, remainingRaw)
		return
	}

	c.limiter.Observe(app.RateLimitInfo{
		Remaining:  remaining,
		Limit:      limit,
		ResetAfter: resetAfter,
	})
}
