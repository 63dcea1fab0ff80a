// Package cancelreg implements the Cancellation Registry: a two-level
// map transfer_id -> file_id -> monotone cancellation flag. Flags are
// set-once booleans; consumers poll them at safe suspension points. A
// successful flag write is always reported as success, even when the
// write also ends the caller's own file-level run early.
package cancelreg

import (
	"fmt"
	"sync"

	"github.com/quickbyte/xfercore/common"
)

// Flag is a single-writer, read-many cancellation flag. A simple
// RWMutex suffices: writes are rare (one per cancel request) and reads
// happen on every worker's hot path.
type Flag struct {
	mu        sync.RWMutex
	cancelled bool
}

func (f *Flag) set() {
	f.mu.Lock()
	f.cancelled = true
	f.mu.Unlock()
}

// IsSet reports whether the flag has been raised. Safe to call from
// any goroutine, including while the flag's owner run is still active.
func (f *Flag) IsSet() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cancelled
}

// Registry is the two-level transfer_id -> file_id -> Flag map. The
// top-level map itself is guarded by its own mutex; per-file flags
// outlive their run so late-arriving workers never panic on a missing
// entry.
type Registry struct {
	mu    sync.RWMutex
	files map[string]map[string]*Flag
}

func New() *Registry {
	return &Registry{files: make(map[string]map[string]*Flag)}
}

// Register allocates fresh, unset flags for every file of job. Called
// both when a new transfer is constructed and when a persisted
// transfer is resumed.
func (r *Registry) Register(job *common.TransferJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fileFlags := make(map[string]*Flag, len(job.Files))
	for _, f := range job.Files {
		fileFlags[f.ID] = &Flag{}
	}
	r.files[job.ID] = fileFlags
}

// Unregister drops all flags for a transfer, e.g. on DeleteTransfer.
func (r *Registry) Unregister(transferID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, transferID)
}

// CancelTransfer sets the flag for every file of transferID.
func (r *Registry) CancelTransfer(transferID string) error {
	r.mu.RLock()
	fileFlags, ok := r.files[transferID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("cancelreg: unknown transfer %s", transferID)
	}
	for _, flag := range fileFlags {
		flag.set()
	}
	return nil
}

// CancelFile sets the flag for one file of one transfer. The
// successful write is always reported as success, never as an error,
// regardless of what the caller does with the flag afterward.
func (r *Registry) CancelFile(transferID, fileID string) error {
	flag, err := r.flag(transferID, fileID)
	if err != nil {
		return err
	}
	flag.set()
	return nil
}

// Flag returns the cancellation flag for one file, for a worker,
// dispatcher or watcher to poll.
func (r *Registry) Flag(transferID, fileID string) (*Flag, error) {
	return r.flag(transferID, fileID)
}

// IsFileCancelled is a convenience check used by the dispatcher and
// workers at every resumable boundary.
func (r *Registry) IsFileCancelled(transferID, fileID string) bool {
	flag, err := r.flag(transferID, fileID)
	if err != nil {
		return false
	}
	return flag.IsSet()
}

func (r *Registry) flag(transferID, fileID string) (*Flag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fileFlags, ok := r.files[transferID]
	if !ok {
		return nil, fmt.Errorf("cancelreg: unknown transfer %s", transferID)
	}
	flag, ok := fileFlags[fileID]
	if !ok {
		return nil, fmt.Errorf("cancelreg: unknown file %s of transfer %s", fileID, transferID)
	}
	return flag, nil
}
