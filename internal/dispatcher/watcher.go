package dispatcher

import (
	"context"
	"os"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/cancelreg"
)

// BlobCommitter is the subset of blobclient.Client the watcher needs
// to finalize an upload.
type BlobCommitter interface {
	PutBlockList(ctx context.Context, url string, blockIDsInOrder []string) error
}

// Reducer is the subset of the transfer manager a watcher reports to.
type Reducer interface {
	OnUpdate(u common.TransferUpdate)
}

// Watcher aggregates one file's block updates into file-level state
// and finalizes the file.
type Watcher struct {
	Registry *cancelreg.Registry
	Client   BlobCommitter
	Logger   common.ILogger
}

// Run awaits the file-started signal, drains block updates until every
// expected block has reported a terminal status, finalizes (block-list
// commit for uploads, fsync for downloads), and reports file-level
// TransferUpdate values to reducer.
func (w *Watcher) Run(ctx context.Context, job *common.TransferJob, file *common.TransferJobFile, started <-chan common.FileStartResult, blockUpdates <-chan common.BlockTransferUpdate, reducer Reducer) {
	result := <-started

	if result.Err != nil {
		reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileFailed, TransferID: job.ID, FileID: file.ID, Err: result.Err.Error()})
		return
	}
	if result.Cancelled {
		reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCancelled, TransferID: job.ID, FileID: file.ID})
		return
	}

	reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileStarted, TransferID: job.ID, FileID: file.ID})

	remaining := result.ExpectedBlocks
	fileCancelled := false
	var failErr string

	for remaining > 0 {
		u := <-blockUpdates
		switch u.Kind {
		case common.BlockProgress:
			reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateChunkProgress, TransferID: job.ID, FileID: file.ID, BlockID: u.BlockID, Size: u.Size})
		case common.BlockCompleted:
			remaining--
			reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateChunkCompleted, TransferID: job.ID, FileID: file.ID, BlockID: u.BlockID})
		case common.BlockCancelled:
			remaining--
			fileCancelled = true
		case common.BlockFailed:
			remaining--
			if failErr == "" && u.Err != nil {
				failErr = u.Err.Error()
			}
		}
	}

	if failErr != "" {
		closeQuietly(result.File)
		reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileFailed, TransferID: job.ID, FileID: file.ID, Err: failErr})
		return
	}

	if fileCancelled || w.Registry.IsFileCancelled(job.ID, file.ID) {
		closeQuietly(result.File)
		if job.Kind == common.KindDownload {
			_ = os.Remove(file.LocalPath)
		}
		reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCancelled, TransferID: job.ID, FileID: file.ID})
		return
	}

	if job.Kind == common.KindUpload {
		if err := w.commitBlockList(ctx, job, file, result.File); err != nil {
			if common.Classify(err) == common.KindCancelled {
				reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCancelled, TransferID: job.ID, FileID: file.ID})
				return
			}
			reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileFailed, TransferID: job.ID, FileID: file.ID, Err: err.Error()})
			return
		}
	} else {
		if err := result.File.Sync(); err != nil {
			closeQuietly(result.File)
			reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileFailed, TransferID: job.ID, FileID: file.ID, Err: common.NewAppError(common.KindFilesystem, "flushing destination file", err).Error()})
			return
		}
	}

	closeQuietly(result.File)
	reducer.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCompleted, TransferID: job.ID, FileID: file.ID})
}

// commitBlockList builds the ordered block-name list from file.Blocks
// (index order) and commits it, retrying on transient I/O while
// honoring cancellation.
func (w *Watcher) commitBlockList(ctx context.Context, job *common.TransferJob, file *common.TransferJobFile, handle common.FileHandle) error {
	ordered := orderedBlockIDs(file)
	for {
		if w.Registry.IsFileCancelled(job.ID, file.ID) {
			return common.NewAppError(common.KindCancelled, "cancelled before block-list commit", nil)
		}
		err := w.Client.PutBlockList(ctx, file.RemoteURL, ordered)
		if err == nil {
			return nil
		}
		if common.Classify(err) == common.KindTransientIO {
			common.Logf(w.Logger, common.LogWarning, "block-list commit for file %s: transient error, retrying: %v", file.ID, err)
			continue
		}
		return err
	}
}

func orderedBlockIDs(file *common.TransferJobFile) []string {
	ordered := make([]string, len(file.Blocks))
	for _, b := range file.Blocks {
		ordered[b.Index] = b.ID
	}
	return ordered
}

func closeQuietly(f common.FileHandle) {
	if f != nil {
		_ = f.Close()
	}
}
