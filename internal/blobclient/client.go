// Package blobclient is the engine's only window onto the remote
// store: exactly three operations against a pre-signed URL —
// PUT-block, PUT-block-list, GET-range.
package blobclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"

	"github.com/quickbyte/xfercore/common"
)

// Client is the blob-store contract the dispatcher/watcher/worker
// stack depends on. A pre-signed URL is opaque and time-bounded; the
// engine never refreshes or inspects its credential.
type Client interface {
	// PutBlock uploads data under blockID (idempotent: re-uploading the
	// same block name is a no-op at the store).
	PutBlock(ctx context.Context, url string, blockID string, data []byte) error
	// PutBlockList commits a block blob from previously staged blocks,
	// in the given order.
	PutBlockList(ctx context.Context, url string, blockIDsInOrder []string) error
	// GetRange streams [offset, offset+length) of the remote object.
	GetRange(ctx context.Context, url string, offset, length int64) (io.ReadCloser, error)
}

type azureClient struct{}

// New returns the production Client, backed by pre-signed-URL block
// blob clients (no stored credential — the URL carries its own auth).
func New() Client {
	return &azureClient{}
}

func (azureClient) PutBlock(ctx context.Context, rawURL string, blockID string, data []byte) error {
	c, err := blockblob.NewClientWithNoCredential(rawURL, nil)
	if err != nil {
		return common.NewAppError(common.KindMalformed, "parsing block destination URL", err)
	}
	encodedID := base64.StdEncoding.EncodeToString([]byte(blockID))
	_, err = c.StageBlock(ctx, encodedID, streamOf(data), nil)
	if err != nil {
		return classifyStoreErr(err)
	}
	return nil
}

func (azureClient) PutBlockList(ctx context.Context, rawURL string, blockIDsInOrder []string) error {
	c, err := blockblob.NewClientWithNoCredential(rawURL, nil)
	if err != nil {
		return common.NewAppError(common.KindMalformed, "parsing block-list destination URL", err)
	}
	encoded := make([]string, len(blockIDsInOrder))
	for i, id := range blockIDsInOrder {
		encoded[i] = base64.StdEncoding.EncodeToString([]byte(id))
	}
	_, err = c.CommitBlockList(ctx, encoded, nil)
	if err != nil {
		return classifyStoreErr(err)
	}
	return nil
}

func (azureClient) GetRange(ctx context.Context, rawURL string, offset, length int64) (io.ReadCloser, error) {
	c, err := blockblob.NewClientWithNoCredential(rawURL, nil)
	if err != nil {
		return nil, common.NewAppError(common.KindMalformed, "parsing download source URL", err)
	}
	resp, err := c.DownloadStream(ctx, &blob.DownloadStreamOptions{
		Range: blob.HTTPRange{Offset: offset, Count: length},
	})
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return resp.Body, nil
}

// classifyStoreErr tags a raw SDK error with the Kind the reducer and
// workers need: transient I/O is retried forever, auth failures
// surface as a file error immediately.
func classifyStoreErr(err error) error {
	switch common.Classify(err) {
	case common.KindAuth:
		return common.NewAppError(common.KindAuth, common.ErrFileTransferLinkAuth, err)
	case common.KindTransientIO:
		return common.NewAppError(common.KindTransientIO, "transient store error", err)
	default:
		return common.NewAppError(common.KindInternal, "store error", err)
	}
}

// nopCloseReadSeeker adapts a bytes.Reader (already an io.ReadSeeker)
// to io.ReadSeekCloser, as StageBlock requires a closeable body even
// though an in-memory buffer has nothing to close.
type nopCloseReadSeeker struct {
	*bytes.Reader
}

func (nopCloseReadSeeker) Close() error { return nil }

func streamOf(data []byte) io.ReadSeekCloser {
	return nopCloseReadSeeker{bytes.NewReader(data)}
}
