package backup

import "time"

// Config controls periodic local snapshots of the todo database.
type Config struct {
	Enabled  bool
	Interval time.Duration
	LocalDir string
	KeepLast int
}

// Snapshotter is the minimal DB snapshot contract used by Manager.
type Snapshotter interface {
	Path() string
	SnapshotTo(dstPath string) error
}
