package manager

import "github.com/quickbyte/xfercore/common"

// OnUpdate is the reducer: the sole entry point through which per-file
// watchers report progress, satisfying dispatcher.Reducer. Apart from
// job construction and the request handlers in frontend.go (notably
// cancelTransferFile, which marks a file Cancelled synchronously), it
// is the only place that mutates a TransferJob's or TransferJobFile's
// status and decides what gets persisted and what gets published.
func (m *Manager) OnUpdate(u common.TransferUpdate) {
	m.mu.Lock()
	job, ok := m.jobs[u.TransferID]
	if !ok {
		m.mu.Unlock()
		return
	}
	file := job.FileByID(u.FileID)
	if file == nil {
		m.mu.Unlock()
		return
	}

	switch u.Kind {
	case common.UpdateChunkProgress:
		file.CompletedSize += u.Size
		if !file.Status.IsTerminal() {
			file.Status = common.StatusProgress
		}
		if !job.Status.IsTerminal() {
			job.Status = common.StatusProgress
		}
		m.mu.Unlock()
		m.publishSnapshot()
		return

	case common.UpdateChunkCompleted:
		for _, b := range file.Blocks {
			if b.ID == u.BlockID {
				b.Status = common.StatusCompleted
				break
			}
		}
		if !file.Status.IsTerminal() {
			file.Status = common.StatusProgress
		}
		// CompletedSize is derived, not accumulated, so a block marked
		// Completed out of order (round-robin workers) never leaves the
		// persisted metric out of sync with the block statuses it comes
		// from.
		file.CompletedSize = file.CompletedSizeFromBlocks()
		completedSize := file.CompletedSize
		m.mu.Unlock()
		m.bus.Publish(common.TransferFileBlockStatusUpdate{FileID: file.ID, BlockID: u.BlockID, Status: common.StatusCompleted, CompletedSize: completedSize})
		m.publishSnapshot()
		return

	case common.UpdateFileStarted:
		file.Status = common.StatusProgress
		m.mu.Unlock()
		return

	case common.UpdateFileCompleted:
		file.CompletedSize = file.Size
		file.Status = common.StatusCompleted
		remoteTransferID := job.RemoteTransferID
		remoteFileID := file.RemoteFileID
		isUpload := job.Kind == common.KindUpload && remoteTransferID != ""
		m.mu.Unlock()
		m.bus.Publish(common.TransferFileStatusUpdate{TransferID: job.ID, FileID: file.ID, Status: common.StatusCompleted})
		if isUpload {
			m.bus.Publish(common.TransferFileUploadComplete{
				TransferID:       job.ID,
				RemoteTransferID: remoteTransferID,
				FileID:           file.ID,
				RemoteFileID:     remoteFileID,
			})
		}
		m.publishSnapshot()
		m.finalizeIfDone(job)
		return

	case common.UpdateFileFailed:
		file.Status = common.StatusError
		file.Error = u.Err
		m.mu.Unlock()
		m.bus.Publish(common.TransferFileStatusUpdate{TransferID: job.ID, FileID: file.ID, Status: common.StatusError, Error: u.Err})
		m.publishSnapshot()
		m.finalizeIfDone(job)
		return

	case common.UpdateFileCancelled:
		if !file.Status.IsTerminal() {
			file.Status = common.StatusCancelled
		}
		m.mu.Unlock()
		m.publishSnapshot()
		m.finalizeIfDone(job)
		return

	default:
		m.mu.Unlock()
	}
}

// finalizeIfDone checks whether every file of job has reached a
// terminal status and, if so, derives and commits the transfer's own
// terminal status exactly once: transfer-level Cancelled and Error are
// always explicitly derived and persisted, never left implicit.
func (m *Manager) finalizeIfDone(job *common.TransferJob) {
	m.mu.Lock()
	if job.Status.IsTerminal() {
		m.mu.Unlock()
		return
	}
	final := job.DeriveTerminalStatus()
	if final == common.StatusProgress {
		m.mu.Unlock()
		return
	}
	job.Status = final
	m.mu.Unlock()

	m.bus.Publish(common.TransferStatusUpdate{TransferID: job.ID, Status: final})
	if final == common.StatusCompleted {
		m.bus.Publish(common.TransferCompleted{Job: job})
	}
	m.publishSnapshot()
}
