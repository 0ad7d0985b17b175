package app_test

import (
	"io"
	"log"
	"time"

	"github.com/melodelete/autodelete/server/app"
	"github.com/melodelete/autodelete/server/bot"
)

func quietLogger() bot.Logger {
	return bot.NewLogger(log.New(io.Discard, "", 0), false)
}

func intp(v int) *int {
	return &v
}

// message builds a Message whose age is expressed relative to now, oldest
// messages carrying the smallest ids.
func message(id uint64, now time.Time, age time.Duration) app.Message {
	return app.Message{
		ID:        id,
		ChannelID: 42,
		CreatedAt: now.Add(-age),
	}
}

// history builds n unpinned messages evenly spaced one minute apart, ordered
// oldest first, with the oldest aged oldestAge.
func history(n int, now time.Time, oldestAge time.Duration) []app.Message {
	messages := make([]app.Message, 0, n)
	for i := 0; i < n; i++ {
		messages = append(messages, message(uint64(i+1), now, oldestAge-time.Duration(i)*time.Minute))
	}
	return messages
}
