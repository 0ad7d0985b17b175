package app

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by the platform client when a channel or
	// message no longer exists, typically because another actor deleted it.
	ErrNotFound = errors.New("not found on the platform")
	// ErrBadBatch is returned when the platform rejects a bulk delete call
	// as malformed or oversized.
	ErrBadBatch = errors.New("bulk delete rejected")
)

// Message is one observed channel message. The engine never mutates a
// message; it only ever asks the platform to delete it.
type Message struct {
	ID        uint64
	ChannelID uint64
	CreatedAt time.Time
	Pinned    bool
}

// Channel is a resolved channel handle.
type Channel struct {
	ID   uint64
	Name string
}

// HistoryOptions controls a channel history fetch.
//
// Before is a best-effort server-side cutoff: when non-zero, only messages
// created before it need to be returned. The time-threshold-only evaluation
// branch uses it to stop paginating early; correctness never depends on it.
type HistoryOptions struct {
	OldestFirst bool
	Before      time.Time
}

// Platform is the surface of the chat platform the engine consumes. The
// concrete implementation lives in server/discord.
type Platform interface {
	// Channel resolves a channel by id. ErrNotFound means the channel no
	// longer exists on the platform.
	Channel(ctx context.Context, id uint64) (*Channel, error)
	// History returns the complete message history of a channel, paginated
	// internally, ordered per opts.
	History(ctx context.Context, channelID uint64, opts HistoryOptions) ([]Message, error)
	// DeleteMessage deletes a single message. ErrNotFound means it was
	// already gone.
	DeleteMessage(ctx context.Context, channelID, messageID uint64) error
	// BulkDelete deletes up to 100 messages in one call. The platform
	// refuses ids older than 14 days; the caller partitions accordingly.
	BulkDelete(ctx context.Context, channelID uint64, messageIDs []uint64) error
}
