package manager

import (
	"context"
	"sync"

	"github.com/quickbyte/xfercore/common"
	"github.com/quickbyte/xfercore/internal/blobclient"
	"github.com/quickbyte/xfercore/internal/cancelreg"
	"github.com/quickbyte/xfercore/internal/dispatcher"
	"github.com/quickbyte/xfercore/internal/eventbus"
	"github.com/quickbyte/xfercore/internal/queue"
	"github.com/quickbyte/xfercore/internal/store"
)

// Manager owns the in-memory job graph and is the sole writer of
// transfer/file/block status. Every mutation to a *common.TransferJob
// happens under mu, either from a request handler (Execute) or from
// the reducer (OnUpdate) driven by per-file watchers.
type Manager struct {
	mu    sync.Mutex
	jobs  map[string]*common.TransferJob

	registry *cancelreg.Registry
	bus      *eventbus.Bus
	store    *store.Store
	submitter dispatcher.Submitter
	blob     blobclient.Client
	config   common.EngineConfig
	logger   common.ILogger

	ctx context.Context
}

// New wires together a Manager from its already-constructed
// collaborators. Queue must already be Started.
func New(ctx context.Context, cfg common.EngineConfig, registry *cancelreg.Registry, bus *eventbus.Bus, st *store.Store, q *queue.Queue, blob blobclient.Client, logger common.ILogger) *Manager {
	return &Manager{
		jobs:      make(map[string]*common.TransferJob),
		registry:  registry,
		bus:       bus,
		store:     st,
		submitter: q,
		blob:      blob,
		config:    cfg,
		logger:    logger,
		ctx:       ctx,
	}
}

// LoadPersisted re-admits every job the durable store has on disk at
// startup, registers cancellation flags for each and resumes any job
// not already in a terminal state. Must be called once, before the
// front-end starts accepting new requests.
func (m *Manager) LoadPersisted() error {
	jobs, err := m.store.LoadAll()
	if err != nil {
		return err
	}
	for _, job := range jobs {
		m.mu.Lock()
		m.jobs[job.ID] = job
		m.mu.Unlock()
		m.registry.Register(job)
		if !job.Status.IsTerminal() {
			m.startRun(job)
		}
	}
	return nil
}

// snapshot returns a shallow copy of the job pointer slice for the
// Transfers event; callers must already hold mu or accept a
// benign race on the slice contents (pointers are never replaced,
// only their fields are mutated under mu, per the single-writer
// discipline this package enforces everywhere else).
func (m *Manager) snapshot() []*common.TransferJob {
	out := make([]*common.TransferJob, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	return out
}

func (m *Manager) publishSnapshot() {
	m.mu.Lock()
	snap := m.snapshot()
	m.mu.Unlock()
	m.bus.Publish(common.Transfers{Snapshot: snap})
}

// startRun launches the goroutines that drive one job's files through
// the dispatcher/watcher pipeline: one goroutine iterates the job's
// files in order, running each file's dispatcher to completion before
// moving to the next (so block submission for file N+1 never starts
// before file N has submitted all of its blocks); each file also gets
// its own watcher goroutine running concurrently with the others.
func (m *Manager) startRun(job *common.TransferJob) {
	d := &dispatcher.Dispatcher{Queue: m.submitter, Registry: m.registry, Logger: m.logger}
	w := &dispatcher.Watcher{Registry: m.registry, Client: m.blob, Logger: m.logger}

	go func() {
		for _, file := range job.Files {
			if file.Status.IsTerminal() {
				continue
			}
			started := make(chan common.FileStartResult, 1)
			blockUpdates := make(chan common.BlockTransferUpdate, m.config.QueueCapacity)

			go w.Run(m.ctx, job, file, started, blockUpdates, m)
			d.Run(m.ctx, job, file, started, blockUpdates)
		}
	}()
}
