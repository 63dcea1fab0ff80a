// Package queue implements the Block Transfer Queue: a bounded queue
// feeding a fixed pool of N worker tasks (default 32). Back-pressure is
// achieved because both the global queue and the per-worker channels
// are bounded; slow workers stall enqueues, which stall dispatchers,
// which is the desired behavior. A golang.org/x/sync/semaphore-based
// global concurrency cap is layered on top of the channels so the
// in-flight count is bounded independently of channel capacity.
package queue

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/worker"
)

// Queue is the bounded fan-out work-stealing pool. Construct with New,
// start with Start, submit with Submit, shut down with Stop.
type Queue struct {
	concurrency int
	global      chan common.BlockTransferRequest
	workerChans []chan common.BlockTransferRequest
	inflight    *semaphore.Weighted
	logger      common.ILogger
	client      worker.BlobClient
	stop        chan struct{}
}

// New builds a queue with the given concurrency (worker count == bound
// on both the global queue and the cap on in-flight requests).
func New(concurrency int, client worker.BlobClient, logger common.ILogger) *Queue {
	if concurrency <= 0 {
		concurrency = common.DefaultConcurrency
	}
	q := &Queue{
		concurrency: concurrency,
		global:      make(chan common.BlockTransferRequest, concurrency),
		workerChans: make([]chan common.BlockTransferRequest, concurrency),
		inflight:    semaphore.NewWeighted(int64(concurrency)),
		logger:      logger,
		client:      client,
		stop:        make(chan struct{}),
	}
	for i := range q.workerChans {
		q.workerChans[i] = make(chan common.BlockTransferRequest, 1)
	}
	return q
}

// Start launches the router task and the fixed worker pool.
func (q *Queue) Start() {
	for i := 0; i < q.concurrency; i++ {
		go q.workerLoop(i, q.workerChans[i])
	}
	go q.routerLoop()
}

// Stop signals the router and workers to exit. Requests still waiting
// in the global queue or a worker channel are not drained, and a
// Submit blocked on the global queue returns context.Canceled.
func (q *Queue) Stop() {
	close(q.stop)
}

// Submit enqueues a block transfer request. The acquire+send sequence
// is what propagates back-pressure up to the dispatcher: a dispatcher
// calling Submit blocks until a slot is free.
func (q *Queue) Submit(ctx context.Context, req common.BlockTransferRequest) error {
	if err := q.inflight.Acquire(ctx, 1); err != nil {
		return err
	}
	select {
	case q.global <- req:
		return nil
	case <-ctx.Done():
		q.inflight.Release(1)
		return ctx.Err()
	case <-q.stop:
		q.inflight.Release(1)
		return context.Canceled
	}
}

// routerLoop receives from the global queue and dispatches to worker
// channels in round-robin order. Round-robin here means
// block-completion order across a file is not guaranteed; block-list
// commit re-imposes index order.
func (q *Queue) routerLoop() {
	next := 0
	for {
		select {
		case req := <-q.global:
			q.workerChans[next] <- req
			next = (next + 1) % q.concurrency
		case <-q.stop:
			return
		}
	}
}

func (q *Queue) workerLoop(id int, in <-chan common.BlockTransferRequest) {
	for {
		select {
		case req := <-in:
			worker.Run(req, q.client, q.logger)
			q.inflight.Release(1)
		case <-q.stop:
			return
		}
	}
}
