package manager

import "github.com/quickbyte/xfercore/common"

// Frontend is the request front-end: an async ingress queue feeding a
// single dispatch goroutine, which spawns each request onto its own
// goroutine so slow requests never hold up request intake.
type Frontend struct {
	manager *Manager
	in      chan Request
}

// NewFrontend starts the dispatch goroutine and returns the front-end.
func NewFrontend(m *Manager, capacity int) *Frontend {
	if capacity <= 0 {
		capacity = 64
	}
	f := &Frontend{manager: m, in: make(chan Request, capacity)}
	go f.dispatchLoop()
	return f
}

// Submit enqueues a request for asynchronous execution. It blocks only
// if the ingress queue is full, applying back-pressure to callers
// rather than growing without bound.
func (f *Frontend) Submit(req Request) {
	f.in <- req
}

func (f *Frontend) dispatchLoop() {
	for req := range f.in {
		go f.manager.Execute(req)
	}
}

// Execute performs one request to completion. Called either directly
// by a test or indirectly via Frontend.Submit's dispatch goroutine.
func (m *Manager) Execute(req Request) {
	switch r := req.(type) {
	case DownloadFilesRequest:
		m.admit(m.newDownloadJob(r))
	case UploadFilesRequest:
		m.admit(m.newUploadJob(r))
	case ResumeTransferRequest:
		m.resume(r.Job)
	case GetTransfersRequest:
		m.publishSnapshot()
	case DeleteTransferRequest:
		m.deleteTransfer(r.TransferID)
	case CancelTransferRequest:
		m.cancelTransfer(r.TransferID)
	case CancelTransferFileRequest:
		m.cancelTransferFile(r.TransferID, r.FileID)
	}
}

// resume re-admits a job the caller already loaded from the durable
// store (e.g. a job found on disk after the engine's own LoadPersisted
// pass missed it, such as one imported from another profile
// directory): register its cancellation flags and start its run
// without re-persisting or re-emitting TransferCreated.
func (m *Manager) resume(job *common.TransferJob) {
	m.mu.Lock()
	if _, exists := m.jobs[job.ID]; exists {
		m.mu.Unlock()
		return
	}
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.registry.Register(job)
	if !job.Status.IsTerminal() {
		m.startRun(job)
	}
	m.publishSnapshot()
}

func (m *Manager) deleteTransfer(transferID string) {
	m.mu.Lock()
	_, ok := m.jobs[transferID]
	delete(m.jobs, transferID)
	m.mu.Unlock()
	if !ok {
		return
	}
	m.registry.Unregister(transferID)
	m.bus.Publish(common.TransferDeleted{TransferID: transferID})
	m.publishSnapshot()
}

func (m *Manager) cancelTransfer(transferID string) {
	_ = m.registry.CancelTransfer(transferID)
}

// cancelTransferFile flags the file for the dispatcher/workers to
// notice and also takes the file straight to Cancelled in memory and
// in the durable store, synchronously and bypassing the reducer: a
// caller asking to cancel one file must see that file's status flip
// immediately rather than wait for in-flight blocks to drain through
// the async dispatcher/watcher pipeline.
func (m *Manager) cancelTransferFile(transferID, fileID string) {
	if err := m.registry.CancelFile(transferID, fileID); err != nil {
		return
	}

	m.mu.Lock()
	job, ok := m.jobs[transferID]
	if !ok {
		m.mu.Unlock()
		return
	}
	file := job.FileByID(fileID)
	if file == nil || file.Status.IsTerminal() {
		m.mu.Unlock()
		return
	}
	file.Status = common.StatusCancelled
	m.mu.Unlock()

	m.bus.Publish(common.TransferFileStatusUpdate{TransferID: transferID, FileID: fileID, Status: common.StatusCancelled})
	m.publishSnapshot()
	m.finalizeIfDone(job)
}
