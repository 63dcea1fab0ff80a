package worker

import (
	"io"

	"github.com/quickbyte/xfercore/common"
)

// downloadReadSize is the inner read size used while draining a
// block's GET-range stream: the request covers the whole block, but
// the body is still drained in smaller pieces so progress can be
// reported incrementally.
const downloadReadSize = 256 * 1024

// runDownload is the download block-worker algorithm: open a streaming
// GET for [offset, offset+size), write each inner chunk at its
// absolute file offset via positional I/O, retry the whole block from
// scratch on a transient I/O error mid-stream. The destination file is
// pre-sized by the dispatcher before any worker runs, so a direct
// positional write is enough; no reordering buffer is needed.
func runDownload(req common.BlockTransferRequest, client BlobClient, logger common.ILogger) {
	for {
		if cancelled(req) {
			emit(req, common.BlockTransferUpdate{Kind: common.BlockCancelled})
			return
		}

		body, err := client.GetRange(req.Ctx, req.RemoteURL, req.Offset, req.Size)
		if err != nil {
			if common.Classify(err) == common.KindTransientIO {
				common.Logf(logger, common.LogWarning, "download block %s: transient GET error, retrying: %v", req.Block.ID, err)
				continue
			}
			emit(req, common.BlockTransferUpdate{Kind: common.BlockFailed, Err: err})
			return
		}

		ok, retry := drainInto(req, body, logger)
		body.Close()
		if ok {
			emit(req, common.BlockTransferUpdate{Kind: common.BlockCompleted})
			return
		}
		if retry {
			continue
		}
		return
	}
}

// drainInto reads body in downloadReadSize pieces, writing each at its
// absolute offset and emitting Progress per piece. Returns (completed,
// shouldRetryWholeBlock). On a transient error mid-stream, progress
// made within this attempt is discarded: the caller retries the whole
// block, and the next attempt's writes overwrite whatever partial data
// landed in the destination region.
func drainInto(req common.BlockTransferRequest, body io.Reader, logger common.ILogger) (completed bool, shouldRetry bool) {
	buf := make([]byte, downloadReadSize)
	chunkProgress := int64(0)

	for chunkProgress < req.Size {
		if cancelled(req) {
			emit(req, common.BlockTransferUpdate{Kind: common.BlockCancelled})
			return false, false
		}

		toRead := int64(len(buf))
		if remaining := req.Size - chunkProgress; remaining < toRead {
			toRead = remaining
		}

		n, err := io.ReadFull(body, buf[:toRead])
		if n > 0 {
			if _, werr := req.File.WriteAt(buf[:n], req.Offset+chunkProgress); werr != nil {
				emit(req, common.BlockTransferUpdate{Kind: common.BlockFailed, Err: common.NewAppError(common.KindFilesystem, "writing local file", werr)})
				return false, false
			}
			chunkProgress += int64(n)
			emit(req, common.BlockTransferUpdate{Kind: common.BlockProgress, Size: int64(n)})
		}
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				if chunkProgress >= req.Size {
					break
				}
			}
			if common.Classify(err) == common.KindTransientIO {
				common.Logf(logger, common.LogWarning, "download block %s: transient error mid-stream, retrying whole block", req.Block.ID)
				return false, true
			}
			emit(req, common.BlockTransferUpdate{Kind: common.BlockFailed, Err: common.NewAppError(common.Classify(err), "reading response body", err)})
			return false, false
		}
	}
	return true, false
}
