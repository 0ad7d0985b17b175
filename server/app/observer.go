package app

import "time"

// Observer receives engine events for metrics. The prometheus adapter in
// server/metrics implements it; NopObserver is for tests and one-shot runs.
type Observer interface {
	ScanStarted()
	ScanCompleted(took time.Duration)
	DeletedSingle()
	DeletedBulk(count int)
	AlreadyGone()
	BulkFallback()
	ChannelPruned()
	PacingDelay(seconds float64)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) ScanStarted() {}
func (NopObserver) ScanCompleted(time.Duration) {}
func (NopObserver) DeletedSingle() {}
func (NopObserver) DeletedBulk(int) {}
func (NopObserver) AlreadyGone() {}
func (NopObserver) BulkFallback() {}
func (NopObserver) ChannelPruned() {}
func (NopObserver) PacingDelay(float64) {}
