package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbyte/xfercore/common"
)

func TestCommitterAppliesEventsInOrder(t *testing.T) {
	a := assert.New(t)
	s := openTestStore(t)
	c := NewCommitter(s, common.NewStdLogger("test", common.LogNone))
	go c.Run()
	defer c.Close()

	job := sampleJob()
	c.Submit(common.TransferCreated{Job: job})
	c.Submit(common.TransferStatusUpdate{TransferID: "t1", Status: common.StatusCompleted})

	// Submit blocks until the committer accepts, so by the time both
	// sends return the second write has already been serialized after
	// the first; give the goroutine a moment to actually apply it.
	deadline := time.After(time.Second)
	for {
		jobs, err := s.LoadAll()
		require.NoError(t, err)
		if len(jobs) == 1 && jobs[0].Status == common.StatusCompleted {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for committer to apply updates")
		case <-time.After(time.Millisecond):
		}
	}

	jobs, err := s.LoadAll()
	a.NoError(err)
	a.Equal(common.StatusCompleted, jobs[0].Status)
}

func TestCommitterIgnoresUIOnlyEvents(t *testing.T) {
	a := assert.New(t)
	s := openTestStore(t)
	c := NewCommitter(s, common.NewStdLogger("test", common.LogNone))
	go c.Run()
	defer c.Close()

	require.NoError(t, s.InsertTransfer(sampleJob()))

	// Transfers snapshots have no SQL effect; apply must not panic or
	// block on an unhandled event kind.
	c.Submit(common.Transfers{Snapshot: nil})
	c.Submit(common.TransferCompleted{Job: sampleJob()})

	jobs, err := s.LoadAll()
	a.NoError(err)
	a.Len(jobs, 1)
}

func TestCommitterCloseWaitsForDrain(t *testing.T) {
	s := openTestStore(t)
	c := NewCommitter(s, common.NewStdLogger("test", common.LogNone))
	go c.Run()

	c.Submit(common.TransferCreated{Job: sampleJob()})
	c.Close()

	jobs, err := s.LoadAll()
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)
}
