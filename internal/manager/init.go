package manager

import "github.com/quickbyte/xfercore/common"

// newFiles materializes TransferJobFile/TransferJobFileBlock values for
// a freshly admitted job: fixed chunk size, blocks computed once and
// never resized afterward.
func (m *Manager) newFiles(transferID string, reqFiles []RequestedFile) ([]*common.TransferJobFile, int64) {
	files := make([]*common.TransferJobFile, 0, len(reqFiles))
	var total int64
	for _, rf := range reqFiles {
		fileID := common.NewID()
		numBlocks := common.NumBlocks(rf.Size, m.config.ChunkSize)
		blocks := make([]*common.TransferJobFileBlock, 0, numBlocks)
		for i := uint32(0); i < numBlocks; i++ {
			blocks = append(blocks, &common.TransferJobFileBlock{
				ID:     common.NewID(),
				FileID: fileID,
				Index:  i,
				Status: common.StatusPending,
			})
		}
		files = append(files, &common.TransferJobFile{
			ID:           fileID,
			TransferID:   transferID,
			RemoteFileID: rf.RemoteFileID,
			Name:         rf.Name,
			Size:         rf.Size,
			ChunkSize:    m.config.ChunkSize,
			RemoteURL:    rf.RemoteURL,
			LocalPath:    rf.LocalPath,
			Status:       common.StatusPending,
			Blocks:       blocks,
		})
		total += rf.Size
	}
	return files, total
}

func (m *Manager) newDownloadJob(req DownloadFilesRequest) *common.TransferJob {
	id := common.NewID()
	files, total := m.newFiles(id, req.Files)
	return &common.TransferJob{
		ID:           id,
		Name:         req.Name,
		Kind:         common.KindDownload,
		TotalSize:    total,
		NumFiles:     len(files),
		LocalPath:    req.TargetDir,
		Status:       common.StatusPending,
		DownloadType: req.DownloadType,
		ShareID:      req.ShareID,
		ShareCode:    req.ShareCode,
		LegacyLinkID: req.LegacyLinkID,
		Files:        files,
	}
}

func (m *Manager) newUploadJob(req UploadFilesRequest) *common.TransferJob {
	id := common.NewID()
	files, total := m.newFiles(id, req.Files)
	return &common.TransferJob{
		ID:               id,
		Name:             req.Name,
		Kind:             common.KindUpload,
		TotalSize:        total,
		NumFiles:         len(files),
		Status:           common.StatusPending,
		RemoteTransferID: req.RemoteTransferID,
		Files:            files,
	}
}

// SubmitDownload constructs, persists and starts a download job,
// returning it immediately so a synchronous caller (e.g. the CLI) can
// learn the assigned transfer id without waiting on the Frontend's
// queue. Equivalent in effect to Execute(DownloadFilesRequest{...}).
func (m *Manager) SubmitDownload(req DownloadFilesRequest) *common.TransferJob {
	job := m.newDownloadJob(req)
	m.admit(job)
	return job
}

// SubmitUpload is SubmitDownload's upload counterpart.
func (m *Manager) SubmitUpload(req UploadFilesRequest) *common.TransferJob {
	job := m.newUploadJob(req)
	m.admit(job)
	return job
}

// admit inserts a freshly constructed job into the in-memory graph,
// persists it, registers its cancellation flags and starts its run:
// construct, persist, emit TransferCreated, start.
func (m *Manager) admit(job *common.TransferJob) {
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.registry.Register(job)
	m.bus.Publish(common.TransferCreated{Job: job})
	m.startRun(job)
}
