package queue

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbyte/xfercore/common"
)

type blockingClient struct {
	release chan struct{}
	calls   int32
}

func (c *blockingClient) PutBlock(ctx context.Context, _ string, _ string, _ []byte) error {
	atomic.AddInt32(&c.calls, 1)
	select {
	case <-c.release:
	case <-ctx.Done():
	}
	return nil
}

func (c *blockingClient) PutBlockList(context.Context, string, []string) error { return nil }
func (c *blockingClient) GetRange(context.Context, string, int64, int64) (io.ReadCloser, error) {
	return nil, nil
}

func newReq(id string) common.BlockTransferRequest {
	return common.BlockTransferRequest{
		Direction: common.DirectionUpload,
		Block:     &common.TransferJobFileBlock{ID: id},
		File:      nopPositionalFile{},
		Updates:   make(chan common.BlockTransferUpdate, 8),
		Ctx:       context.Background(),
	}
}

type nopPositionalFile struct{}

func (nopPositionalFile) ReadAt(p []byte, _ int64) (int, error)  { return len(p), nil }
func (nopPositionalFile) WriteAt(p []byte, _ int64) (int, error) { return len(p), nil }

func TestQueueRunsUpToConcurrencyConcurrently(t *testing.T) {
	client := &blockingClient{release: make(chan struct{})}
	q := New(2, client, nil)
	q.Start()
	defer q.Stop()

	ctx := context.Background()
	require.NoError(t, q.Submit(ctx, newReq("a")))
	require.NoError(t, q.Submit(ctx, newReq("b")))

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&client.calls) < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for both workers to start")
		case <-time.After(time.Millisecond):
		}
	}
	close(client.release)
}

func TestQueueSubmitBlocksWhenAtCapacity(t *testing.T) {
	client := &blockingClient{release: make(chan struct{})}
	q := New(1, client, nil)
	q.Start()
	defer q.Stop()

	ctx := context.Background()
	require.NoError(t, q.Submit(ctx, newReq("a")))

	// A second submit should not return until the in-flight slot frees
	// up: a short-deadline context should fail to acquire it.
	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := q.Submit(shortCtx, newReq("b"))
	assert.Error(t, err)

	close(client.release)
}
