// Package worker implements the Block Worker algorithms for upload and
// download: the body a Block Transfer Queue worker runs for exactly
// one block.
package worker

import (
	"context"
	"io"

	"github.com/quickbyte/xfercore/common"
)

// BlobClient is the subset of internal/blobclient.Client a block
// worker needs. Declared locally so this package doesn't import
// blobclient, per the usual "accept the smallest interface" shape.
type BlobClient interface {
	PutBlock(ctx context.Context, url string, blockID string, data []byte) error
	PutBlockList(ctx context.Context, url string, blockIDsInOrder []string) error
	GetRange(ctx context.Context, url string, offset, length int64) (io.ReadCloser, error)
}

// Run executes one BlockTransferRequest to completion, emitting a
// Progress/Completed/Cancelled/Failed sequence of BlockTransferUpdate
// values on req.Updates.
func Run(req common.BlockTransferRequest, client BlobClient, logger common.ILogger) {
	switch req.Direction {
	case common.DirectionUpload:
		runUpload(req, client, logger)
	case common.DirectionDownload:
		runDownload(req, client, logger)
	}
}

func cancelled(req common.BlockTransferRequest) bool {
	return req.Cancelled != nil && req.Cancelled()
}

func emit(req common.BlockTransferRequest, u common.BlockTransferUpdate) {
	u.BlockID = req.Block.ID
	select {
	case req.Updates <- u:
	case <-req.Ctx.Done():
	}
}
