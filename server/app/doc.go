// Package app holds the retention engine: deciding which messages are
// deletable and getting them deleted with the fewest, safest API calls.
//
//   - Retention is configured per channel: a time threshold (minutes) and/or
//     a maximum message count. A channel with no entry is left alone.
//   - Pinned messages are never deleted.
//   - Bulk Delete Messages takes at most 100 ids and refuses messages older
//     than 14 days; anything older goes through single deletes.
//   - Small cleanups (below bulk_delete_min) use single deletes only, so
//     they stay out of the platform's moderation audit log.
//   - All delete-class calls share one pacing delay learned from the
//     platform's rate-limit response headers.
//
// The engine works off the platform REST API for history and deletes, never
// local state. The scanner is the only engine-side writer of policy state,
// and only to drop channels that no longer exist.
package app
