package cancelreg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quickbyte/xfercore/common"
)

func testJob(transferID string, fileIDs ...string) *common.TransferJob {
	job := &common.TransferJob{ID: transferID}
	for _, id := range fileIDs {
		job.Files = append(job.Files, &common.TransferJobFile{ID: id})
	}
	return job
}

func TestCancelFileSetsOnlyThatFile(t *testing.T) {
	a := assert.New(t)

	r := New()
	r.Register(testJob("t1", "f1", "f2"))

	err := r.CancelFile("t1", "f1")

	a.NoError(err)
	a.True(r.IsFileCancelled("t1", "f1"))
	a.False(r.IsFileCancelled("t1", "f2"))
}

func TestCancelFileSuccessfulWriteAlwaysReturnsNil(t *testing.T) {
	a := assert.New(t)

	r := New()
	r.Register(testJob("t1", "f1"))

	// Cancelling an already-cancelled file is still a successful write:
	// CancelFile never reports an error once the flag is set.
	a.NoError(r.CancelFile("t1", "f1"))
	a.NoError(r.CancelFile("t1", "f1"))
}

func TestCancelFileUnknownTransferOrFileErrors(t *testing.T) {
	a := assert.New(t)

	r := New()
	r.Register(testJob("t1", "f1"))

	a.Error(r.CancelFile("unknown", "f1"))
	a.Error(r.CancelFile("t1", "unknown"))
}

func TestCancelTransferSetsEveryFile(t *testing.T) {
	a := assert.New(t)

	r := New()
	r.Register(testJob("t1", "f1", "f2", "f3"))

	a.NoError(r.CancelTransfer("t1"))

	a.True(r.IsFileCancelled("t1", "f1"))
	a.True(r.IsFileCancelled("t1", "f2"))
	a.True(r.IsFileCancelled("t1", "f3"))
}

func TestUnregisterDropsFlags(t *testing.T) {
	a := assert.New(t)

	r := New()
	r.Register(testJob("t1", "f1"))
	r.Unregister("t1")

	a.False(r.IsFileCancelled("t1", "f1"))
	a.Error(r.CancelFile("t1", "f1"))
}

func TestIsFileCancelledUnknownIsFalseNotPanic(t *testing.T) {
	a := assert.New(t)

	r := New()

	a.False(r.IsFileCancelled("nope", "nope"))
}

func TestHandedOutFlagObservesLaterCancel(t *testing.T) {
	a := assert.New(t)

	r := New()
	r.Register(testJob("t1", "f1"))

	flag, err := r.Flag("t1", "f1")
	a.NoError(err)
	a.False(flag.IsSet())

	a.NoError(r.CancelFile("t1", "f1"))
	a.True(flag.IsSet())
}
