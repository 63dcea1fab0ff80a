// Package manager implements the Transfer Manager and Request
// Front-End: in-memory job graph, request dispatch and the update
// reducer, the sole writer of transfer/file status and the sole
// initiator of durable writes and Event Bus emissions. One goroutine
// per request, over a job vector shared behind a single mutex.
package manager

import "github.com/quickbyte/xfercore/common"

// Request is the family of values the Request Front-End accepts.
type Request interface {
	isRequest()
}

// RequestedFile describes one file to include in a new job, shared by
// both download and upload requests.
type RequestedFile struct {
	RemoteFileID string
	Name         string
	Size         int64
	RemoteURL    string
	LocalPath    string
}

// DownloadFilesRequest constructs a download job from a shared link or
// a legacy transfer link. The two link kinds differ only in
// provenance, never in the shape of the resulting job.
type DownloadFilesRequest struct {
	Name         string
	DownloadType common.DownloadType
	ShareID      string
	ShareCode    string
	LegacyLinkID string
	TargetDir    string
	Files        []RequestedFile
}

// UploadFilesRequest constructs an upload job.
type UploadFilesRequest struct {
	Name             string
	RemoteTransferID string
	Files            []RequestedFile
}

// ResumeTransferRequest re-admits a persisted job into the in-memory
// graph.
type ResumeTransferRequest struct {
	Job *common.TransferJob
}

// GetTransfersRequest asks the manager to emit a Transfers snapshot.
type GetTransfersRequest struct{}

// DeleteTransferRequest removes a transfer from memory and the durable
// store.
type DeleteTransferRequest struct {
	TransferID string
}

// CancelTransferRequest cancels every file of a transfer.
type CancelTransferRequest struct {
	TransferID string
}

// CancelTransferFileRequest cancels one file of a transfer.
type CancelTransferFileRequest struct {
	TransferID string
	FileID     string
}

func (DownloadFilesRequest) isRequest()    {}
func (UploadFilesRequest) isRequest()      {}
func (ResumeTransferRequest) isRequest()   {}
func (GetTransfersRequest) isRequest()     {}
func (DeleteTransferRequest) isRequest()   {}
func (CancelTransferRequest) isRequest()   {}
func (CancelTransferFileRequest) isRequest() {}
