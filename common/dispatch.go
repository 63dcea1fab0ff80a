package common

import "time"

// FileStartResult is what a dispatcher sends over the single-shot
// "file started" channel to its watcher: either a ready file handle
// plus start time, or the reason the file could not be opened.
type FileStartResult struct {
	Cancelled      bool
	Err            error
	File           FileHandle
	StartedAt      time.Time
	ExpectedBlocks int
}
