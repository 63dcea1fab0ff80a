package worker

import (
	"github.com/quickbyte/xfercore/common"
)

// runUpload is the upload block-worker algorithm: read the block's
// byte range via positional I/O, PUT it under the block's id, retry
// transient I/O forever, bail out on any other error or on
// cancellation. Block-count bookkeeping belongs to the dispatcher and
// watcher, not to this worker.
func runUpload(req common.BlockTransferRequest, client BlobClient, logger common.ILogger) {
	buf := make([]byte, req.Size)

	// step 1-2: positional read of this block's range.
	if _, err := req.File.ReadAt(buf, req.Offset); err != nil {
		common.Logf(logger, common.LogError, "upload block %s: read failed: %v", req.Block.ID, err)
		emit(req, common.BlockTransferUpdate{Kind: common.BlockFailed, Err: common.NewAppError(common.KindFilesystem, "reading local file", err)})
		return
	}

	// step 4: retry PUT indefinitely on transient I/O.
	for {
		if cancelled(req) {
			break
		}
		err := client.PutBlock(req.Ctx, req.RemoteURL, req.Block.ID, buf)
		if err == nil {
			break
		}
		if common.Classify(err) == common.KindTransientIO {
			common.Logf(logger, common.LogWarning, "upload block %s: transient error, retrying: %v", req.Block.ID, err)
			continue
		}
		emit(req, common.BlockTransferUpdate{Kind: common.BlockFailed, Err: err})
		return
	}

	// step 5
	if cancelled(req) {
		emit(req, common.BlockTransferUpdate{Kind: common.BlockCancelled})
		return
	}

	// step 6
	emit(req, common.BlockTransferUpdate{Kind: common.BlockProgress, Size: req.Size})
	emit(req, common.BlockTransferUpdate{Kind: common.BlockCompleted})
}
