package store

import (
	"runtime"

	"github.com/quickbyte/xfercore/common"
)

// Committer is the sole writer of the durable store. It pulls
// common.Event values off a synchronous (unbuffered) channel and
// applies the corresponding write, so the committer never reorders
// updates relative to the order the reducer sent them, and blocking
// database calls never occupy an async worker.
type Committer struct {
	store  *Store
	events chan common.Event
	done   chan struct{}
	logger common.ILogger
}

// NewCommitter constructs a committer over store. Events must be sent
// with Submit; Run starts the dedicated goroutine.
func NewCommitter(store *Store, logger common.ILogger) *Committer {
	return &Committer{
		store:  store,
		events: make(chan common.Event),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Submit hands an event to the committer. It blocks until the
// committer is ready to receive, which is what gives the Event Bus its
// FIFO, never-lags-more-than-the-backlog guarantee.
func (c *Committer) Submit(ev common.Event) {
	c.events <- ev
}

// Run processes events until Close is called. It locks itself to an OS
// thread so that gorm's blocking sqlite calls never stall the Go
// scheduler's other goroutines.
func (c *Committer) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				close(c.done)
				return
			}
			c.apply(ev)
		}
	}
}

// Close stops accepting new work and waits for Run to exit.
func (c *Committer) Close() {
	close(c.events)
	<-c.done
}

func (c *Committer) apply(ev common.Event) {
	var err error
	switch e := ev.(type) {
	case common.TransferCreated:
		err = c.store.InsertTransfer(e.Job)
	case common.TransferStatusUpdate:
		err = c.store.UpdateTransferStatus(e.TransferID, e.Status, e.Error)
	case common.TransferFileStatusUpdate:
		err = c.store.UpdateFileStatus(e.FileID, e.Status, e.Error)
	case common.TransferFileBlockStatusUpdate:
		if err = c.store.UpdateBlockStatus(e.BlockID, e.Status); err != nil {
			break
		}
		err = c.store.UpdateFileCompletedSize(e.FileID, e.CompletedSize)
	case common.TransferDeleted:
		err = c.store.DeleteTransfer(e.TransferID)
	default:
		// Transfers snapshots, TransferCompleted and
		// TransferFileUploadComplete are UI-bus-only events with no
		// direct SQL effect of their own (their underlying status
		// changes are separately reported as *StatusUpdate events).
		return
	}
	if err != nil {
		common.Logf(c.logger, common.LogError, "durable store write failed for %T: %v", ev, err)
	}
}
