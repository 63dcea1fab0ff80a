package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumBlocks(t *testing.T) {
	a := assert.New(t)

	a.Equal(uint32(0), NumBlocks(0, 16))
	a.Equal(uint32(1), NumBlocks(1, 16))
	a.Equal(uint32(1), NumBlocks(16, 16))
	a.Equal(uint32(2), NumBlocks(17, 16))
	a.Equal(uint32(0), NumBlocks(100, 0))
}

func TestBlockSizeHonorsShortLastBlock(t *testing.T) {
	a := assert.New(t)

	f := &TransferJobFile{Size: 40, ChunkSize: 16}

	a.EqualValues(16, f.BlockSize(0))
	a.EqualValues(16, f.BlockSize(1))
	a.EqualValues(8, f.BlockSize(2))
}

func TestCompletedSizeFromBlocks(t *testing.T) {
	a := assert.New(t)

	f := &TransferJobFile{
		Size:      40,
		ChunkSize: 16,
		Blocks: []*TransferJobFileBlock{
			{Index: 0, Status: StatusCompleted},
			{Index: 1, Status: StatusPending},
			{Index: 2, Status: StatusCompleted},
		},
	}

	a.EqualValues(16+8, f.CompletedSizeFromBlocks())
}

func TestFileByID(t *testing.T) {
	a := assert.New(t)

	job := &TransferJob{Files: []*TransferJobFile{
		{ID: "a"}, {ID: "b"},
	}}

	a.Equal("b", job.FileByID("b").ID)
	a.Nil(job.FileByID("missing"))
}

func TestDeriveTerminalStatusAllCompleted(t *testing.T) {
	a := assert.New(t)

	job := &TransferJob{Files: []*TransferJobFile{
		{Status: StatusCompleted}, {Status: StatusCompleted},
	}}

	a.Equal(StatusCompleted, job.DeriveTerminalStatus())
}

func TestDeriveTerminalStatusNotYetTerminal(t *testing.T) {
	a := assert.New(t)

	job := &TransferJob{Files: []*TransferJobFile{
		{Status: StatusCompleted}, {Status: StatusProgress},
	}}

	a.Equal(StatusProgress, job.DeriveTerminalStatus())
}

func TestDeriveTerminalStatusAnyErrorWins(t *testing.T) {
	a := assert.New(t)

	job := &TransferJob{Files: []*TransferJobFile{
		{Status: StatusCompleted}, {Status: StatusError}, {Status: StatusCancelled},
	}}

	a.Equal(StatusError, job.DeriveTerminalStatus())
}

func TestDeriveTerminalStatusAllCancelled(t *testing.T) {
	a := assert.New(t)

	job := &TransferJob{Files: []*TransferJobFile{
		{Status: StatusCancelled}, {Status: StatusCancelled},
	}}

	a.Equal(StatusCancelled, job.DeriveTerminalStatus())
}

func TestDeriveTerminalStatusMixedCancelledCompletedIsError(t *testing.T) {
	a := assert.New(t)

	// A partially-cancelled transfer is not a full success: only a
	// transfer with every file Completed is reported Completed, and
	// only a transfer with every file Cancelled is reported Cancelled.
	job := &TransferJob{Files: []*TransferJobFile{
		{Status: StatusCancelled}, {Status: StatusCompleted},
	}}

	a.Equal(StatusError, job.DeriveTerminalStatus())
}

func TestJobStatusIsTerminal(t *testing.T) {
	a := assert.New(t)

	a.False(StatusPending.IsTerminal())
	a.False(StatusProgress.IsTerminal())
	a.True(StatusCompleted.IsTerminal())
	a.True(StatusCancelled.IsTerminal())
	a.True(StatusError.IsTerminal())
}
