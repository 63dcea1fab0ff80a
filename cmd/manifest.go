package cmd

import (
	"encoding/json"
	"os"

	"github.com/quickbyte/xfercore/internal/manager"
)

// manifestEntry is the on-disk shape a caller supplies to describe the
// files a download or upload request should act on: this CLI has no
// live connection to whatever service mints pre-signed URLs, so the
// URLs themselves must already be resolved by the time a manifest
// reaches xfercore.
type manifestEntry struct {
	RemoteFileID string `json:"remoteFileId"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	RemoteURL    string `json:"remoteUrl"`
	LocalPath    string `json:"localPath"`
}

func loadManifest(path string) ([]manager.RequestedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []manifestEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	files := make([]manager.RequestedFile, 0, len(entries))
	for _, e := range entries {
		files = append(files, manager.RequestedFile{
			RemoteFileID: e.RemoteFileID,
			Name:         e.Name,
			Size:         e.Size,
			RemoteURL:    e.RemoteURL,
			LocalPath:    e.LocalPath,
		})
	}
	return files, nil
}
