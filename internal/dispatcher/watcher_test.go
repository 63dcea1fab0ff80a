package dispatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/cancelreg"
)

type fakeBlobCommitter struct {
	committed [][]string
	err       error
}

func (c *fakeBlobCommitter) PutBlockList(_ context.Context, _ string, blockIDsInOrder []string) error {
	c.committed = append(c.committed, blockIDsInOrder)
	return c.err
}

type fakeReducer struct {
	updates []common.TransferUpdate
}

func (r *fakeReducer) OnUpdate(u common.TransferUpdate) {
	r.updates = append(r.updates, u)
}

func (r *fakeReducer) kinds() []common.TransferUpdateKind {
	out := make([]common.TransferUpdateKind, len(r.updates))
	for i, u := range r.updates {
		out[i] = u.Kind
	}
	return out
}

func openTempHandle(t *testing.T, size int64) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.bin")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	return f
}

func TestWatcherReportsStartFailure(t *testing.T) {
	a := assert.New(t)

	w := &Watcher{Registry: cancelreg.New()}
	reducer := &fakeReducer{}
	started := make(chan common.FileStartResult, 1)
	started <- common.FileStartResult{Err: common.NewAppError(common.KindFilesystem, "boom", nil)}

	w.Run(context.Background(), &common.TransferJob{ID: "t1"}, &common.TransferJobFile{ID: "f1"}, started, nil, reducer)

	require.Len(t, reducer.updates, 1)
	a.Equal(common.UpdateFileFailed, reducer.updates[0].Kind)
}

func TestWatcherCompletesUploadAndCommitsBlockList(t *testing.T) {
	a := assert.New(t)

	handle := openTempHandle(t, 32)
	defer os.Remove(handle.Name())

	file := &common.TransferJobFile{
		ID: "f1", Size: 32, ChunkSize: 16,
		Blocks: []*common.TransferJobFileBlock{
			{ID: "b0", Index: 0}, {ID: "b1", Index: 1},
		},
	}
	job := &common.TransferJob{ID: "t1", Kind: common.KindUpload}

	committer := &fakeBlobCommitter{}
	registry := cancelreg.New()
	registry.Register(&common.TransferJob{ID: "t1", Files: []*common.TransferJobFile{file}})
	w := &Watcher{Registry: registry, Client: committer}
	reducer := &fakeReducer{}

	started := make(chan common.FileStartResult, 1)
	started <- common.FileStartResult{File: handle, ExpectedBlocks: 2}
	blockUpdates := make(chan common.BlockTransferUpdate, 4)
	blockUpdates <- common.BlockTransferUpdate{Kind: common.BlockCompleted, BlockID: "b0"}
	blockUpdates <- common.BlockTransferUpdate{Kind: common.BlockCompleted, BlockID: "b1"}

	w.Run(context.Background(), job, file, started, blockUpdates, reducer)

	a.Equal([]common.TransferUpdateKind{common.UpdateFileStarted, common.UpdateChunkCompleted, common.UpdateChunkCompleted, common.UpdateFileCompleted}, reducer.kinds())
	require.Len(t, committer.committed, 1)
	a.Equal([]string{"b0", "b1"}, committer.committed[0])
}

func TestWatcherFailsFileWhenABlockFails(t *testing.T) {
	a := assert.New(t)

	handle := openTempHandle(t, 16)
	defer os.Remove(handle.Name())

	file := &common.TransferJobFile{
		ID: "f1", Size: 16, ChunkSize: 16,
		Blocks: []*common.TransferJobFileBlock{{ID: "b0", Index: 0}},
	}
	job := &common.TransferJob{ID: "t1", Kind: common.KindDownload}

	registry := cancelreg.New()
	registry.Register(&common.TransferJob{ID: "t1", Files: []*common.TransferJobFile{file}})
	w := &Watcher{Registry: registry}
	reducer := &fakeReducer{}

	started := make(chan common.FileStartResult, 1)
	started <- common.FileStartResult{File: handle, ExpectedBlocks: 1}
	blockUpdates := make(chan common.BlockTransferUpdate, 1)
	blockUpdates <- common.BlockTransferUpdate{Kind: common.BlockFailed, BlockID: "b0", Err: common.NewAppError(common.KindAuth, "expired", nil)}

	w.Run(context.Background(), job, file, started, blockUpdates, reducer)

	require.Len(t, reducer.updates, 2)
	a.Equal(common.UpdateFileStarted, reducer.updates[0].Kind)
	a.Equal(common.UpdateFileFailed, reducer.updates[1].Kind)
}

func TestWatcherCancelledFileRemovesPartialDownload(t *testing.T) {
	a := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "partial.bin")
	handle, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	require.NoError(t, handle.Truncate(16))

	file := &common.TransferJobFile{
		ID: "f1", Size: 16, ChunkSize: 16, LocalPath: path,
		Blocks: []*common.TransferJobFileBlock{{ID: "b0", Index: 0}},
	}
	job := &common.TransferJob{ID: "t1", Kind: common.KindDownload}

	registry := cancelreg.New()
	registry.Register(&common.TransferJob{ID: "t1", Files: []*common.TransferJobFile{file}})
	w := &Watcher{Registry: registry}
	reducer := &fakeReducer{}

	started := make(chan common.FileStartResult, 1)
	started <- common.FileStartResult{File: handle, ExpectedBlocks: 1}
	blockUpdates := make(chan common.BlockTransferUpdate, 1)
	blockUpdates <- common.BlockTransferUpdate{Kind: common.BlockCancelled, BlockID: "b0"}

	w.Run(context.Background(), job, file, started, blockUpdates, reducer)

	require.Len(t, reducer.updates, 2)
	a.Equal(common.UpdateFileStarted, reducer.updates[0].Kind)
	a.Equal(common.UpdateFileCancelled, reducer.updates[1].Kind)
	_, statErr := os.Stat(path)
	a.True(os.IsNotExist(statErr))
}
