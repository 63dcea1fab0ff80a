// Package dispatcher implements the Per-File Dispatcher and Completion
// Watcher pair: for each active file of a transfer, the dispatcher
// opens/creates the local file, validates preconditions and enqueues
// one block-transfer request per non-completed block; the watcher
// aggregates block updates into file-level state and finalizes the
// file.
package dispatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/cancelreg"
	"github.com/quickbyte/xfercore/internal/queue"
)

// Submitter is the subset of *queue.Queue a dispatcher needs.
type Submitter interface {
	Submit(ctx context.Context, req common.BlockTransferRequest) error
}

var _ Submitter = (*queue.Queue)(nil)

// Dispatcher runs the per-file preflight-and-enqueue sequence for one
// file of one run.
type Dispatcher struct {
	Queue    Submitter
	Registry *cancelreg.Registry
	Logger   common.ILogger
}

// Run validates preconditions, opens/creates the local file, reports
// the outcome on started, and — on success — submits one
// BlockTransferRequest per non-completed block (in index order),
// forwarding BlockTransferUpdate values onto blockUpdates. Run returns
// once every block has been submitted or submission was short-circuited
// by cancellation; it does not wait for workers to finish.
func (d *Dispatcher) Run(ctx context.Context, job *common.TransferJob, file *common.TransferJobFile, started chan<- common.FileStartResult, blockUpdates chan<- common.BlockTransferUpdate) {
	// Malformed input caught before any I/O.
	if file.Size == 0 {
		started <- common.FileStartResult{Err: common.NewAppError(common.KindMalformed, "empty file is not transferable", nil)}
		return
	}
	if file.ChunkSize <= 0 {
		started <- common.FileStartResult{Err: common.NewAppError(common.KindMalformed, "chunk size must be positive", nil)}
		return
	}

	pending := pendingBlocks(file)

	handle, err := d.openOrCreate(job, file)
	if err != nil {
		started <- common.FileStartResult{Err: err}
		return
	}

	startedAt := time.Now()
	started <- common.FileStartResult{
		File:           handle,
		StartedAt:      startedAt,
		ExpectedBlocks: len(pending),
	}

	cancelledNow := func() bool {
		return d.Registry.IsFileCancelled(job.ID, file.ID)
	}

	for _, block := range pending {
		if cancelledNow() {
			// Stop enqueuing further blocks; report the rest as
			// cancelled so the watcher's accounting completes.
			blockUpdates <- common.BlockTransferUpdate{Kind: common.BlockCancelled, BlockID: block.ID}
			continue
		}

		req := common.BlockTransferRequest{
			Direction:  directionOf(job.Kind),
			TransferID: job.ID,
			FileID:     file.ID,
			Block:      block,
			Offset:     int64(block.Index) * file.ChunkSize,
			Size:       file.BlockSize(block.Index),
			File:       handle,
			RemoteURL:  file.RemoteURL,
			Cancelled:  cancelledNow,
			Updates:    blockUpdates,
			Ctx:        ctx,
		}

		if err := d.Queue.Submit(ctx, req); err != nil {
			// Context cancelled out from under us (e.g. process
			// shutdown); report the block cancelled rather than lose
			// the accounting.
			blockUpdates <- common.BlockTransferUpdate{Kind: common.BlockCancelled, BlockID: block.ID}
		}
	}
}

func pendingBlocks(file *common.TransferJobFile) []*common.TransferJobFileBlock {
	pending := make([]*common.TransferJobFileBlock, 0, len(file.Blocks))
	for _, b := range file.Blocks {
		if b.Status != common.StatusCompleted {
			pending = append(pending, b)
		}
	}
	return pending
}

func directionOf(kind common.TransferKind) common.BlockTransferDirection {
	if kind == common.KindUpload {
		return common.DirectionUpload
	}
	return common.DirectionDownload
}

// openOrCreate implements the upload/download preconditions: upload
// opens the local file read-only; download creates parent
// directories and a pre-sized sparse destination file so concurrent
// positional writes are safe, including on resume (re-Truncate to the
// same size is idempotent).
func (d *Dispatcher) openOrCreate(job *common.TransferJob, file *common.TransferJobFile) (*os.File, error) {
	if job.Kind == common.KindUpload {
		f, err := os.OpenFile(file.LocalPath, os.O_RDONLY, 0)
		if err != nil {
			return nil, common.NewAppError(common.KindFilesystem, fmt.Sprintf("opening local file %s", file.LocalPath), err)
		}
		return f, nil
	}

	if err := os.MkdirAll(filepath.Dir(file.LocalPath), 0o755); err != nil {
		return nil, common.NewAppError(common.KindFilesystem, "creating destination directory", err)
	}
	f, err := os.OpenFile(file.LocalPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, common.NewAppError(common.KindFilesystem, fmt.Sprintf("creating destination file %s", file.LocalPath), err)
	}
	if err := f.Truncate(file.Size); err != nil {
		f.Close()
		return nil, common.NewAppError(common.KindFilesystem, "reserving destination file length", err)
	}
	return f, nil
}
