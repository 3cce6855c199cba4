package core

import "time"

// Snapshot status values stored with each mark
const (
	SnapshotStatusOK    = "ok"
	SnapshotStatusError = "error"
)

// Timeout defaults for snapshot operations
const (
	DefaultSnapshotTimeout  = 35 * time.Second
	DefaultNetworkIdleDelay = 500 * time.Millisecond
)
