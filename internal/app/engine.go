// Package app wires the engine's collaborators into one Engine value:
// durable store, committer, event bus, cancellation registry, blob
// client, block transfer queue and transfer manager/front-end.
// Construction order here is itself load-bearing: the store must be
// open and the committer running before the manager resumes any
// persisted job, since a resumed job's first reducer update needs
// somewhere to commit to.
package app

import (
	"context"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/blobclient"
	"github.com/quickbyte/xfercore/internal/cancelreg"
	"github.com/quickbyte/xfercore/internal/eventbus"
	"github.com/quickbyte/xfercore/internal/manager"
	"github.com/quickbyte/xfercore/internal/queue"
	"github.com/quickbyte/xfercore/internal/store"
)

// Engine bundles every long-lived collaborator of one running transfer
// engine instance.
type Engine struct {
	Config   common.EngineConfig
	Logger   common.ILogger
	Store    *store.Store
	Committer *store.Committer
	Bus      *eventbus.Bus
	Registry *cancelreg.Registry
	Queue    *queue.Queue
	Manager  *manager.Manager
	Frontend *manager.Frontend

	cancel context.CancelFunc
}

// Start opens the durable store at cfg.DatabasePath, brings up the
// committer, event bus, cancellation registry, blob client and block
// queue, resumes any persisted non-terminal transfers, and returns a
// ready Engine whose Frontend accepts requests.
func Start(cfg common.EngineConfig, logger common.ILogger) (*Engine, error) {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	committer := store.NewCommitter(st, logger)
	go committer.Run()

	bus := eventbus.New(committer, cfg.QueueCapacity)
	registry := cancelreg.New()
	blob := blobclient.New()

	q := queue.New(cfg.Concurrency, blob, logger)
	q.Start()

	ctx, cancel := context.WithCancel(context.Background())
	mgr := manager.New(ctx, cfg, registry, bus, st, q, blob, logger)

	if err := mgr.LoadPersisted(); err != nil {
		cancel()
		q.Stop()
		committer.Close()
		return nil, err
	}

	fe := manager.NewFrontend(mgr, cfg.QueueCapacity)

	return &Engine{
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Committer: committer,
		Bus:       bus,
		Registry:  registry,
		Queue:     q,
		Manager:   mgr,
		Frontend:  fe,
		cancel:    cancel,
	}, nil
}

// Stop tears the engine down in reverse dependency order: stop
// accepting new run work, stop the queue (without draining it), flush
// the committer, close the UI bus.
func (e *Engine) Stop() {
	e.cancel()
	e.Queue.Stop()
	e.Committer.Close()
	e.Bus.Close()
}
