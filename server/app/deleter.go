package app

import (
	"context"
	"errors"
	"time"

	"github.com/melodelete/autodelete/server/bot"
)

const (
	// bulkDeleteMax is the hard platform cap of ids per Bulk Delete call.
	bulkDeleteMax = 100
	// bulkDeleteMaxAge is the hard platform cap on how old a bulk-deleted
	// message may be.
	bulkDeleteMaxAge = 14 * 24 * time.Hour
)

// Deleter executes the deletions for one channel's deletable set, choosing
// between bulk and single deletes per the platform's constraints. Every
// outbound call waits out the current rate-limit delay first; better to wait
// once per call than to burst and get a harder lockout.
type Deleter struct {
	platform Platform
	limiter  *RateLimit
	log      bot.Logger
	obs      Observer

	// now is replaced in tests.
	now func() time.Time
}

func NewDeleter(platform Platform, limiter *RateLimit, log bot.Logger, obs Observer) *Deleter {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Deleter{
		platform: platform,
		limiter:  limiter,
		log:      log,
		obs:      obs,
		now:      time.Now,
	}
}

// DeleteAll deletes the given messages, which must all belong to channel and
// be ordered oldest first. Below bulkMin everything goes through single
// deletes, keeping routine cleanups out of the moderation audit log.
// Otherwise messages too old for Bulk Delete are deleted singly as they are
// encountered and the rest accumulate into batches of up to 100.
//
// Per-message failures are logged, not returned; a failed message is simply
// left for the next scan cycle.
func (d *Deleter) DeleteAll(ctx context.Context, channel Channel, messages []Message, bulkMin int) error {
	if len(messages) < bulkMin {
		for _, m := range messages {
			if err := d.deleteOne(ctx, channel, m); err != nil {
				return err
			}
		}
		return nil
	}

	cutoff := d.now().Add(-bulkDeleteMaxAge)
	batch := make([]Message, 0, bulkDeleteMax)

	for _, m := range messages {
		if m.CreatedAt.Before(cutoff) {
			if err := d.deleteOne(ctx, channel, m); err != nil {
				return err
			}
			continue
		}

		batch = append(batch, m)
		if len(batch) == bulkDeleteMax {
			if err := d.deleteBatch(ctx, channel, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) != 0 {
		return d.deleteBatch(ctx, channel, batch)
	}
	return nil
}

// deleteBatch bulk-deletes one batch, splitting into chunks of 100 if handed
// more, and falling back to single deletes when the platform refuses the
// call.
func (d *Deleter) deleteBatch(ctx context.Context, channel Channel, batch []Message) error {
	if len(batch) > bulkDeleteMax {
		for start := 0; start < len(batch); start += bulkDeleteMax {
			end := start + bulkDeleteMax
			if end > len(batch) {
				end = len(batch)
			}
			if err := d.deleteBatch(ctx, channel, batch[start:end]); err != nil {
				return err
			}
		}
		return nil
	}
	if len(batch) == 0 {
		return nil
	}
	if len(batch) == 1 {
		return d.deleteOne(ctx, channel, batch[0])
	}

	if err := d.pace(ctx); err != nil {
		return err
	}

	ids := make([]uint64, len(batch))
	for i, m := range batch {
		ids[i] = m.ID
	}

	err := d.platform.BulkDelete(ctx, channel.ID, ids)
	switch {
	case err == nil:
		d.obs.DeletedBulk(len(batch))
		return nil

	case errors.Is(err, ErrNotFound):
		// Only possible when the call resolved to a single remaining
		// message; it was deleted since scanning.
		d.obs.AlreadyGone()
		d.log.Infof("message ID %d in #%s (ID: %d) was deleted since scanning", batch[0].ID, channel.Name, channel.ID)
		return nil

	case errors.Is(err, ErrBadBatch):
		d.obs.BulkFallback()
		d.log.Errorf("failed to bulk delete %d messages in #%s (ID: %d): batch rejected by the API; falling back to individual deletions: %v",
			len(batch), channel.Name, channel.ID, err)

	default:
		d.obs.BulkFallback()
		d.log.Infof("failed to bulk delete %d messages in #%s (ID: %d); falling back to individual deletions: %v",
			len(batch), channel.Name, channel.ID, err)
	}

	for _, m := range batch {
		if err := d.deleteOne(ctx, channel, m); err != nil {
			return err
		}
	}
	return nil
}

// deleteOne deletes a single message. A not-found response means another
// actor got there first and is not a failure.
func (d *Deleter) deleteOne(ctx context.Context, channel Channel, m Message) error {
	if err := d.pace(ctx); err != nil {
		return err
	}

	err := d.platform.DeleteMessage(ctx, channel.ID, m.ID)
	switch {
	case err == nil:
		d.obs.DeletedSingle()
	case errors.Is(err, ErrNotFound):
		d.obs.AlreadyGone()
		d.log.Infof("message ID %d in #%s (ID: %d) was deleted since scanning", m.ID, channel.Name, channel.ID)
	default:
		// Left for the next cycle; retrying now would only add rate-limit
		// pressure.
		d.log.Errorf("failed to delete message ID %d in #%s (ID: %d): %v", m.ID, channel.Name, channel.ID, err)
	}
	return nil
}

// pace waits out the current rate-limit delay. The only error it returns is
// the context's.
func (d *Deleter) pace(ctx context.Context) error {
	delay := d.limiter.Delay()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
