package common

import (
	"os"
	"path/filepath"
)

// StatFiles stats each path and reports its size without starting a
// transfer. A path that cannot be stat'd is skipped rather than
// aborting the whole batch, since this is advisory UI info.
func StatFiles(paths []string) []FileSizeInfo {
	out := make([]FileSizeInfo, 0, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		out = append(out, FileSizeInfo{
			Path: p,
			Name: filepath.Base(p),
			Size: fi.Size(),
		})
	}
	return out
}
