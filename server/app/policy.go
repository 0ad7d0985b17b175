package app

import "time"

// Evaluate computes the deletable messages of one channel under the given
// policy. history must be ordered oldest to newest; the result keeps that
// order, which the deleter relies on for its too-old-for-bulk partitioning.
//
// Decision table, in priority order:
//   - both criteria set: keep a message only if it is among the newest
//     MaxMessages AND younger than the threshold; delete otherwise
//   - only TimeThreshold: delete everything older than now - threshold
//   - only MaxMessages: delete everything but the newest MaxMessages
//   - neither: delete nothing
//
// Pinned messages are never deletable, and never count toward MaxMessages.
// Pure function of its inputs.
func Evaluate(history []Message, policy ChannelPolicy, now time.Time) []Message {
	unpinned := make([]Message, 0, len(history))
	for _, m := range history {
		if !m.Pinned {
			unpinned = append(unpinned, m)
		}
	}

	switch {
	case policy.TimeThreshold != nil && policy.MaxMessages != nil:
		cutoff := now.Add(-time.Duration(*policy.TimeThreshold) * time.Minute)
		keepFrom := len(unpinned) - *policy.MaxMessages

		deletable := make([]Message, 0, len(unpinned))
		for i, m := range unpinned {
			if i < keepFrom || m.CreatedAt.Before(cutoff) {
				deletable = append(deletable, m)
			}
		}
		return deletable

	case policy.TimeThreshold != nil:
		cutoff := now.Add(-time.Duration(*policy.TimeThreshold) * time.Minute)

		deletable := make([]Message, 0, len(unpinned))
		for _, m := range unpinned {
			if m.CreatedAt.Before(cutoff) {
				deletable = append(deletable, m)
			}
		}
		return deletable

	case policy.MaxMessages != nil:
		if len(unpinned) <= *policy.MaxMessages {
			return nil
		}
		return unpinned[:len(unpinned)-*policy.MaxMessages]

	default:
		return nil
	}
}
