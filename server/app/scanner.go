package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/melodelete/autodelete/server/bot"
)

// minScanInterval floors the configured scan interval so a bad setting can
// never hammer the API.
const minScanInterval = 2 * time.Minute

// ChannelReport is the outcome of one channel in one scan cycle.
type ChannelReport struct {
	ChannelID uint64 `json:"channel_id"`
	Name      string `json:"name"`
	Deletable int    `json:"deletable"`
	Error     string `json:"error,omitempty"`
}

// Report is the outcome of one scan cycle, kept for status reporting.
type Report struct {
	StartedAt time.Time       `json:"started_at"`
	Took      time.Duration   `json:"took_ns"`
	Channels  []ChannelReport `json:"channels"`
}

// Scanner drives the periodic scan over all configured channels. One cycle
// evaluates every channel first and only then deletes, so the failure
// isolation boundaries stay clean and a scan failure never blocks a deletion
// that was already computed.
type Scanner struct {
	store    PolicyStore
	platform Platform
	limiter  *RateLimit
	deleter  *Deleter
	log      bot.Logger
	obs      Observer

	// started guards the loop against the platform's reconnection logic
	// signalling ready more than once per session.
	started atomic.Bool
	// runMu serializes scheduled cycles with manual refreshes; a refresh
	// blocks until any in-flight cycle ends rather than overlapping it.
	runMu sync.Mutex

	reportMu sync.RWMutex
	report   Report

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewScanner(store PolicyStore, platform Platform, limiter *RateLimit, deleter *Deleter, log bot.Logger, obs Observer) *Scanner {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Scanner{
		store:    store,
		platform: platform,
		limiter:  limiter,
		deleter:  deleter,
		log:      log,
		obs:      obs,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Start launches the scan loop. It returns false if the loop was already
// started; the gateway calls this on every ready signal and only the first
// one may win.
func (s *Scanner) Start(ctx context.Context) bool {
	if !s.started.CompareAndSwap(false, true) {
		return false
	}
	go s.run(ctx)
	return true
}

func (s *Scanner) run(ctx context.Context) {
	for {
		s.log.Infof("-- new scan --")
		if _, err := s.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			// Top-level cycle guard: log and wait for the next cycle
			// rather than crashing the process.
			s.log.Errorf("uncaught error in scan cycle; waiting until the next one: %v", err)
		}

		s.sleep(ctx, s.scanInterval())
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *Scanner) scanInterval() time.Duration {
	minutes, err := s.store.ScanInterval()
	if err != nil {
		s.log.Errorf("failed to read scan interval; using the %v floor: %v", minScanInterval, err)
		return minScanInterval
	}
	interval := time.Duration(minutes) * time.Minute
	if interval < minScanInterval {
		interval = minScanInterval
	}
	return interval
}

// Refresh runs one full scan cycle now. It is safe to call while the loop is
// running: cycles are serialized, never concurrent.
func (s *Scanner) Refresh(ctx context.Context) (Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := s.now()
	s.obs.ScanStarted()

	// Optimistic: the limit may have changed or reset since the last cycle.
	s.limiter.Reset()

	bulkMin, err := s.store.BulkDeleteMin()
	if err != nil {
		return Report{}, err
	}

	// Snapshot the channel list so in-cycle config edits cannot corrupt the
	// iteration.
	channelIDs, err := s.store.Channels()
	if err != nil {
		return Report{}, err
	}

	report := Report{StartedAt: started}

	type pending struct {
		channel   Channel
		deletable []Message
	}
	var toDelete []pending

	for _, id := range channelIDs {
		channel, err := s.platform.Channel(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Self-healing: the channel is gone, so its policy is stale.
			s.log.Errorf("channel not found: %d; removing from auto-delete", id)
			if clearErr := s.store.ClearChannel(id); clearErr != nil {
				s.log.Errorf("failed to remove stale channel %d: %v", id, clearErr)
			} else {
				s.obs.ChannelPruned()
			}
			continue
		}
		if err != nil {
			s.log.Errorf("failed to resolve channel %d: %v", id, err)
			report.Channels = append(report.Channels, ChannelReport{ChannelID: id, Error: err.Error()})
			continue
		}

		deletable, err := s.evaluateChannel(ctx, *channel)
		if err != nil {
			s.log.Errorf("failed to scan for messages to delete in #%s (ID: %d): %v", channel.Name, id, err)
			report.Channels = append(report.Channels, ChannelReport{ChannelID: id, Name: channel.Name, Error: err.Error()})
			continue
		}

		s.log.Infof("#%s (ID: %d) has %d messages to delete", channel.Name, id, len(deletable))
		report.Channels = append(report.Channels, ChannelReport{ChannelID: id, Name: channel.Name, Deletable: len(deletable)})
		toDelete = append(toDelete, pending{channel: *channel, deletable: deletable})
	}

	for _, p := range toDelete {
		if err := s.deleter.DeleteAll(ctx, p.channel, p.deletable, bulkMin); err != nil {
			if ctx.Err() != nil {
				return report, err
			}
			s.log.Errorf("failed to delete messages in #%s (ID: %d): %v", p.channel.Name, p.channel.ID, err)
		}
	}

	report.Took = s.now().Sub(started)
	s.obs.ScanCompleted(report.Took)

	s.reportMu.Lock()
	s.report = report
	s.reportMu.Unlock()

	return report, nil
}

// evaluateChannel fetches the channel's history and runs the evaluator.
// When only a time threshold is configured the fetch stops at the cutoff; the
// other branches need the full history because position-from-the-end cannot
// be known without it.
func (s *Scanner) evaluateChannel(ctx context.Context, channel Channel) ([]Message, error) {
	policy, err := s.store.ChannelPolicy(channel.ID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, nil
	}

	opts := HistoryOptions{OldestFirst: true}
	if policy.TimeThreshold != nil && policy.MaxMessages == nil {
		opts.Before = s.now().Add(-time.Duration(*policy.TimeThreshold) * time.Minute)
	}

	history, err := s.platform.History(ctx, channel.ID, opts)
	if err != nil {
		return nil, err
	}

	return Evaluate(history, *policy, s.now()), nil
}

// Estimate evaluates one channel without deleting anything, for status
// reporting.
func (s *Scanner) Estimate(ctx context.Context, channelID uint64) (int, error) {
	channel, err := s.platform.Channel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	deletable, err := s.evaluateChannel(ctx, *channel)
	if err != nil {
		return 0, err
	}
	return len(deletable), nil
}

// LastReport returns the outcome of the most recent completed scan cycle.
func (s *Scanner) LastReport() Report {
	s.reportMu.RLock()
	defer s.reportMu.RUnlock()
	return s.report
}

// IsChannelSet reports whether a channel is configured for auto-delete. The
// gateway uses it to decide whether a delete event is worth logging.
func (s *Scanner) IsChannelSet(id uint64) bool {
	policy, err := s.store.ChannelPolicy(id)
	return err == nil && policy != nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
