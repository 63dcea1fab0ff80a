package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/eventbus"
)

func newTestManager(job *common.TransferJob) (*Manager, *eventbus.Bus) {
	bus := eventbus.New(nil, 32)
	m := &Manager{
		jobs: map[string]*common.TransferJob{job.ID: job},
		bus:  bus,
	}
	return m, bus
}

func drainNEvents(t *testing.T, bus *eventbus.Bus, n int) []common.Event {
	t.Helper()
	var out []common.Event
	for i := 0; i < n; i++ {
		select {
		case ev := <-bus.UIEvents():
			out = append(out, ev)
		default:
			t.Fatalf("expected %d events, only saw %d", n, len(out))
		}
	}
	return out
}

func testJob() *common.TransferJob {
	return &common.TransferJob{
		ID:   "t1",
		Kind: common.KindDownload,
		Files: []*common.TransferJobFile{
			{
				ID: "f1", Size: 32, ChunkSize: 16,
				Blocks: []*common.TransferJobFileBlock{
					{ID: "b0", Index: 0, Status: common.StatusPending},
					{ID: "b1", Index: 1, Status: common.StatusPending},
				},
			},
		},
	}
}

func TestOnUpdateChunkCompletedMarksBlockAndPublishes(t *testing.T) {
	a := assert.New(t)
	job := testJob()
	m, bus := newTestManager(job)

	m.OnUpdate(common.TransferUpdate{Kind: common.UpdateChunkCompleted, TransferID: "t1", FileID: "f1", BlockID: "b0"})

	a.Equal(common.StatusCompleted, job.Files[0].Blocks[0].Status)
	a.Equal(common.StatusProgress, job.Files[0].Status)

	events := drainNEvents(t, bus, 2)
	_, isBlockUpdate := events[0].(common.TransferFileBlockStatusUpdate)
	a.True(isBlockUpdate)
	_, isSnapshot := events[1].(common.Transfers)
	a.True(isSnapshot)
}

func TestOnUpdateFileCompletedFinalizesSingleFileTransfer(t *testing.T) {
	a := assert.New(t)
	job := testJob()
	m, bus := newTestManager(job)

	m.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCompleted, TransferID: "t1", FileID: "f1"})

	a.Equal(common.StatusCompleted, job.Files[0].Status)
	a.Equal(common.StatusCompleted, job.Status)

	var sawTransferCompleted bool
	var sawTransferStatusUpdate bool
drain:
	for {
		select {
		case ev := <-bus.UIEvents():
			switch ev.(type) {
			case common.TransferCompleted:
				sawTransferCompleted = true
			case common.TransferStatusUpdate:
				sawTransferStatusUpdate = true
			}
		default:
			break drain
		}
	}
	a.True(sawTransferCompleted)
	a.True(sawTransferStatusUpdate)
}

func TestOnUpdateFileFailedMarksJobError(t *testing.T) {
	a := assert.New(t)
	job := testJob()
	m, _ := newTestManager(job)

	m.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileFailed, TransferID: "t1", FileID: "f1", Err: "disk full"})

	a.Equal(common.StatusError, job.Files[0].Status)
	a.Equal("disk full", job.Files[0].Error)
	a.Equal(common.StatusError, job.Status)
}

func TestOnUpdateMultiFileTransferWaitsForAllFiles(t *testing.T) {
	a := assert.New(t)
	job := testJob()
	job.Files = append(job.Files, &common.TransferJobFile{ID: "f2", Size: 16, ChunkSize: 16})
	m, _ := newTestManager(job)

	m.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCompleted, TransferID: "t1", FileID: "f1"})

	a.False(job.Status.IsTerminal())

	m.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCompleted, TransferID: "t1", FileID: "f2"})

	a.Equal(common.StatusCompleted, job.Status)
}

func TestOnUpdateAllFilesCancelledMarksTransferCancelled(t *testing.T) {
	a := assert.New(t)
	job := testJob()
	m, _ := newTestManager(job)

	m.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCancelled, TransferID: "t1", FileID: "f1"})

	a.Equal(common.StatusCancelled, job.Status)
}

func TestOnUpdateUnknownTransferIsIgnored(t *testing.T) {
	job := testJob()
	m, _ := newTestManager(job)

	require.NotPanics(t, func() {
		m.OnUpdate(common.TransferUpdate{Kind: common.UpdateFileCompleted, TransferID: "unknown", FileID: "f1"})
	})
}
