package store

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quickbyte/xfercore/common"
)

// Store owns the single *gorm.DB connection. The connection is owned
// by the committer goroutine only; every other access goes through the
// Store's methods, which are safe to call from that one goroutine.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// migrates the three tables. path may be ":memory:" for tests, the
// same convention marmos91-dittofs uses for its SQLite backend.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, common.NewAppError(common.KindInternal, "opening durable store", err)
	}
	if err := db.AutoMigrate(&TransferRow{}, &FileRow{}, &BlockRow{}); err != nil {
		return nil, common.NewAppError(common.KindInternal, "migrating durable store", err)
	}
	return &Store{db: db}, nil
}

// InsertTransfer persists TransferCreated: insert into transfers, bulk
// insert files and file_blocks.
func (s *Store) InsertTransfer(job *common.TransferJob) error {
	row := toTransferRow(job)
	return s.db.Create(&row).Error
}

// UpdateTransferStatus persists TransferStatusUpdate.
func (s *Store) UpdateTransferStatus(transferID string, status common.JobStatus, errMsg string) error {
	return s.db.Model(&TransferRow{}).Where("id = ?", transferID).
		Updates(map[string]interface{}{"status": string(status), "error": errMsg}).Error
}

// UpdateFileStatus persists TransferFileStatusUpdate.
func (s *Store) UpdateFileStatus(fileID string, status common.JobStatus, errMsg string) error {
	return s.db.Model(&FileRow{}).Where("id = ?", fileID).
		Updates(map[string]interface{}{"status": string(status), "error": errMsg}).Error
}

// UpdateFileCompletedSize persists the authoritative progress metric
// alongside a block status change, used for
// TransferFileBlockStatusUpdate.
func (s *Store) UpdateFileCompletedSize(fileID string, completedSize int64) error {
	return s.db.Model(&FileRow{}).Where("id = ?", fileID).
		Update("completed_size", completedSize).Error
}

// UpdateBlockStatus persists TransferFileBlockStatusUpdate.
func (s *Store) UpdateBlockStatus(blockID string, status common.JobStatus) error {
	return s.db.Model(&BlockRow{}).Where("id = ?", blockID).
		Update("status", string(status)).Error
}

// DeleteTransfer persists TransferDeleted: cascading delete of
// transfers -> files -> file_blocks.
func (s *Store) DeleteTransfer(transferID string) error {
	return s.db.Select("Files", "Files.Blocks").Delete(&TransferRow{ID: transferID}).Error
}

// LoadAll reconstructs every persisted TransferJob, for startup
// recovery. Readers only run here, before the committer begins
// processing.
func (s *Store) LoadAll() ([]*common.TransferJob, error) {
	var rows []TransferRow
	if err := s.db.Preload("Files.Blocks").Find(&rows).Error; err != nil {
		return nil, err
	}
	jobs := make([]*common.TransferJob, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, fromTransferRow(&rows[i]))
	}
	return jobs, nil
}

func toTransferRow(job *common.TransferJob) TransferRow {
	row := TransferRow{
		ID:               job.ID,
		Name:             job.Name,
		Kind:             string(job.Kind),
		TotalSize:        job.TotalSize,
		NumFiles:         job.NumFiles,
		LocalPath:        job.LocalPath,
		Status:           string(job.Status),
		Error:            job.Error,
		DownloadType:     string(job.DownloadType),
		ShareID:          job.ShareID,
		ShareCode:        job.ShareCode,
		LegacyLinkID:     job.LegacyLinkID,
		RemoteTransferID: job.RemoteTransferID,
	}
	for _, f := range job.Files {
		fileRow := FileRow{
			ID:            f.ID,
			TransferID:    job.ID,
			RemoteFileID:  f.RemoteFileID,
			Name:          f.Name,
			Size:          f.Size,
			ChunkSize:     f.ChunkSize,
			RemoteURL:     f.RemoteURL,
			LocalPath:     f.LocalPath,
			CompletedSize: f.CompletedSize,
			Status:        string(f.Status),
			Error:         f.Error,
		}
		for _, b := range f.Blocks {
			fileRow.Blocks = append(fileRow.Blocks, BlockRow{
				ID:     b.ID,
				FileID: f.ID,
				Index:  b.Index,
				Status: string(b.Status),
			})
		}
		row.Files = append(row.Files, fileRow)
	}
	return row
}

func fromTransferRow(row *TransferRow) *common.TransferJob {
	job := &common.TransferJob{
		ID:               row.ID,
		Name:             row.Name,
		Kind:             common.TransferKind(row.Kind),
		TotalSize:        row.TotalSize,
		NumFiles:         row.NumFiles,
		LocalPath:        row.LocalPath,
		Status:           common.JobStatus(row.Status),
		Error:            row.Error,
		DownloadType:     common.DownloadType(row.DownloadType),
		ShareID:          row.ShareID,
		ShareCode:        row.ShareCode,
		LegacyLinkID:     row.LegacyLinkID,
		RemoteTransferID: row.RemoteTransferID,
	}
	for _, fr := range row.Files {
		file := &common.TransferJobFile{
			ID:           fr.ID,
			TransferID:   row.ID,
			RemoteFileID: fr.RemoteFileID,
			Name:         fr.Name,
			Size:         fr.Size,
			ChunkSize:    fr.ChunkSize,
			RemoteURL:    fr.RemoteURL,
			LocalPath:    fr.LocalPath,
			Status:       common.JobStatus(fr.Status),
			Error:        fr.Error,
		}
		for _, br := range fr.Blocks {
			file.Blocks = append(file.Blocks, &common.TransferJobFileBlock{
				ID:     br.ID,
				FileID: fr.ID,
				Index:  br.Index,
				Status: common.JobStatus(br.Status),
			})
		}
		// completed_size is derived from block statuses, not trusted
		// from the persisted column: a crash between a block's commit
		// and its own completed_size write must not resume understating
		// (or otherwise disagreeing with) the blocks already Completed.
		file.CompletedSize = file.CompletedSizeFromBlocks()
		job.Files = append(job.Files, file)
	}
	return job
}
