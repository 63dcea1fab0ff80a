// Package store is the Durable Store: a local relational database
// holding three tables — transfers, files, file_blocks — written
// through a single-threaded committer so that persistent state changes
// observe total order with respect to in-memory updates.
package store

import "time"

// TransferRow is the gorm model for the transfers table.
type TransferRow struct {
	ID               string `gorm:"primaryKey"`
	Name             string
	Kind             string
	TotalSize        int64
	NumFiles         int
	LocalPath        string
	Status           string
	Error            string
	DownloadType     string
	ShareID          string
	ShareCode        string
	LegacyLinkID     string
	RemoteTransferID string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Files []FileRow `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE"`
}

func (TransferRow) TableName() string { return "transfers" }

// FileRow is the gorm model for the files table.
type FileRow struct {
	ID            string `gorm:"primaryKey"`
	TransferID    string `gorm:"index"`
	RemoteFileID  string
	Name          string
	Size          int64
	ChunkSize     int64
	RemoteURL     string
	LocalPath     string
	CompletedSize int64
	Status        string
	Error         string

	Blocks []BlockRow `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

func (FileRow) TableName() string { return "files" }

// BlockRow is the gorm model for the file_blocks table.
type BlockRow struct {
	ID     string `gorm:"primaryKey"`
	FileID string `gorm:"index"`
	Index  uint32
	Status string
}

func (BlockRow) TableName() string { return "file_blocks" }
