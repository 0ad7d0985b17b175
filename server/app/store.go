package app

// ChannelPolicy is the retention rule for one channel. Both fields are
// optional; nil means the criterion is not used. A policy with neither set
// never deletes anything.
type ChannelPolicy struct {
	// TimeThreshold in minutes. Messages older than this are deletable.
	TimeThreshold *int
	// MaxMessages keeps only the N most recent messages.
	MaxMessages *int
}

// PolicyStore persists per-channel retention policies and the server-wide
// settings. The engine treats it as read-only during a scan except for
// ClearChannel, which the scanner calls when a configured channel no longer
// resolves.
type PolicyStore interface {
	Channels() ([]uint64, error)
	ChannelPolicy(id uint64) (*ChannelPolicy, error)
	SetChannel(id uint64, timeThreshold, maxMessages *int) error
	// ClearChannel removes a channel's policy. Removing an absent channel is
	// not an error.
	ClearChannel(id uint64) error

	BulkDeleteMin() (int, error)
	SetBulkDeleteMin(min int) error
	// ScanInterval between scans, in minutes.
	ScanInterval() (int, error)
	SetScanInterval(minutes int) error

	AllowedRoles() ([]string, error)
	AddAllowedRole(role string) error
	RemoveAllowedRole(role string) error
}
