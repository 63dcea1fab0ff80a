package common

// Event is the family of values the engine emits on the Event Bus.
// Concrete types below implement it; consumers type-switch on the
// concrete type rather than on a closed tagged union.
type Event interface {
	isEvent()
}

// TransferCreated is emitted once a job has been constructed and
// persisted.
type TransferCreated struct {
	Job *TransferJob
}

// Transfers carries a full snapshot of all known jobs, emitted after
// nearly every reducer step so the UI can be a pure function of the
// latest snapshot.
type Transfers struct {
	Snapshot []*TransferJob
}

// TransferCompleted is emitted once every file of a transfer reaches a
// terminal status and the transfer itself becomes Completed.
type TransferCompleted struct {
	Job *TransferJob
}

// TransferDeleted is emitted after a DeleteTransfer request has been
// fully applied (memory + durable store).
type TransferDeleted struct {
	TransferID string
}

// TransferStatusUpdate mirrors a transfer-level status change that was
// also written to the durable store.
type TransferStatusUpdate struct {
	TransferID string
	Status     JobStatus
	Error      string
}

// TransferFileStatusUpdate mirrors a file-level status change.
type TransferFileStatusUpdate struct {
	TransferID string
	FileID     string
	Status     JobStatus
	Error      string
}

// TransferFileBlockStatusUpdate mirrors a block-level status change.
// CompletedSize carries the file's authoritative progress metric
// (CompletedSizeFromBlocks, recomputed by the reducer at the moment
// the block turned Completed) so the durable store's completed_size
// column never drifts from the per-block statuses it is derived from.
type TransferFileBlockStatusUpdate struct {
	FileID        string
	BlockID       string
	Status        JobStatus
	CompletedSize int64
}

// TransferFileUploadComplete is emitted for upload jobs that carry a
// remote-transfer-id once a file finishes, so a server-side companion
// can be told which remote file object corresponds to the local one.
type TransferFileUploadComplete struct {
	TransferID       string
	RemoteTransferID string
	FileID           string
	RemoteFileID     string
}

func (TransferCreated) isEvent()              {}
func (Transfers) isEvent()                    {}
func (TransferCompleted) isEvent()            {}
func (TransferDeleted) isEvent()              {}
func (TransferStatusUpdate) isEvent()         {}
func (TransferFileStatusUpdate) isEvent()     {}
func (TransferFileBlockStatusUpdate) isEvent() {}
func (TransferFileUploadComplete) isEvent()   {}
