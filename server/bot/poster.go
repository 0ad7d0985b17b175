package bot

import (
	"context"

	"github.com/pkg/errors"
)

// Poster posts messages to platform channels on behalf of the bot account.
type Poster interface {
	Post(ctx context.Context, channelID uint64, message string) error
}

// MessageCreator is the slice of the platform client the poster needs.
type MessageCreator interface {
	CreateMessage(ctx context.Context, channelID uint64, content string) error
}

type poster struct {
	client MessageCreator
	log    Logger
}

// NewPoster returns a Poster that sends messages through the platform client.
func NewPoster(client MessageCreator, log Logger) Poster {
	return &poster{client: client, log: log}
}

func (p *poster) Post(ctx context.Context, channelID uint64, message string) error {
	if err := p.client.CreateMessage(ctx, channelID, message); err != nil {
		return errors.Wrapf(err, "failed to post to channel %d", channelID)
	}
	return nil
}
