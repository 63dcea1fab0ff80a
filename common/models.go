// Package common holds the value types, opaque IDs and block-layout math
// shared by every stage of the transfer engine: request front-end,
// transfer manager, block queue, dispatchers/watchers and the durable
// store.
package common

// JobStatus is the status of a transfer, file or block. Blocks only
// ever reach {Pending, Completed, Cancelled, Error}; files and
// transfers pass through Progress on the way to a terminal status.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusProgress  JobStatus = "progress"
	StatusCompleted JobStatus = "completed"
	StatusCancelled JobStatus = "cancelled"
	StatusError     JobStatus = "error"
)

// IsTerminal reports whether no further transitions are possible.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusError
}

// TransferKind distinguishes the direction of a transfer.
type TransferKind string

const (
	KindUpload   TransferKind = "upload"
	KindDownload TransferKind = "download"
)

// DownloadType records which kind of link a download job was created
// from. Both produce the same TransferJob shape; only provenance
// differs.
type DownloadType string

const (
	DownloadTypeLegacyTransfer DownloadType = "legacyTransfer"
	DownloadTypeProjectShare   DownloadType = "projectShare"
)

// TransferJobFileBlock is a fixed-size (except possibly the last) byte
// range of a file, transferred as one unit. Blocks are pre-materialized
// at job-creation time and never added or removed afterward.
type TransferJobFileBlock struct {
	ID     string
	FileID string
	Index  uint32
	Status JobStatus
}

// TransferJobFile is one file within a transfer job.
type TransferJobFile struct {
	ID            string
	TransferID    string
	RemoteFileID  string
	Name          string
	Size          int64
	ChunkSize     int64
	RemoteURL     string // pre-signed, time-bounded, opaque
	LocalPath     string
	CompletedSize int64
	Status        JobStatus
	Error         string
	Blocks        []*TransferJobFileBlock
}

// BlockSize returns the size in bytes of block index k, honoring the
// short last block.
func (f *TransferJobFile) BlockSize(index uint32) int64 {
	offset := int64(index) * f.ChunkSize
	remaining := f.Size - offset
	if remaining > f.ChunkSize {
		return f.ChunkSize
	}
	return remaining
}

// NumBlocks computes ceil(size / chunkSize), the fixed block count for
// a file.
func NumBlocks(size, chunkSize int64) uint32 {
	if chunkSize <= 0 {
		return 0
	}
	return uint32((size + chunkSize - 1) / chunkSize)
}

// CompletedSizeFromBlocks recomputes the authoritative progress
// metric: the sum of sizes of Completed blocks.
func (f *TransferJobFile) CompletedSizeFromBlocks() int64 {
	var total int64
	for _, b := range f.Blocks {
		if b.Status == StatusCompleted {
			total += f.BlockSize(b.Index)
		}
	}
	return total
}

// TransferJob is the top-level unit the transfer manager tracks.
type TransferJob struct {
	ID        string
	Name      string
	Kind      TransferKind
	TotalSize int64
	NumFiles  int
	LocalPath string
	Status    JobStatus
	Error     string

	// Download provenance.
	DownloadType  DownloadType
	ShareID       string
	ShareCode     string
	LegacyLinkID  string

	// Upload provenance.
	RemoteTransferID string

	Files []*TransferJobFile
}

// FileByID returns the file with the given id, or nil.
func (t *TransferJob) FileByID(fileID string) *TransferJobFile {
	for _, f := range t.Files {
		if f.ID == fileID {
			return f
		}
	}
	return nil
}

// DeriveTerminalStatus computes the transfer's terminal status from
// its files' statuses: Completed iff every file is Completed, Cancelled
// iff every file is Cancelled, Error otherwise (including a mix of
// Completed and Cancelled files with no Error, which is not a full
// success and so is not reported Completed). Always explicitly derived
// and persisted rather than left implicit, so a transfer whose files
// all end up Cancelled is itself reported Cancelled, not silently stuck
// mid-progress.
func (t *TransferJob) DeriveTerminalStatus() JobStatus {
	allCompleted := true
	allCancelled := true
	allTerminal := true
	for _, f := range t.Files {
		if !f.Status.IsTerminal() {
			allTerminal = false
		}
		if f.Status != StatusCompleted {
			allCompleted = false
		}
		if f.Status != StatusCancelled {
			allCancelled = false
		}
	}
	if !allTerminal {
		return StatusProgress
	}
	switch {
	case allCompleted:
		return StatusCompleted
	case allCancelled:
		return StatusCancelled
	default:
		return StatusError
	}
}

// AppInfo is returned by the GetAppInfo command.
type AppInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	ServerBaseURL string `json:"serverBaseUrl"`
}

// FileSizeInfo is one entry of the GetFileSizes preflight response.
type FileSizeInfo struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}
