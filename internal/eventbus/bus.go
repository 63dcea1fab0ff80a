// Package eventbus implements the Event Bus: two unidirectional
// channels out of the engine. A multi-producer asynchronous channel
// emits Event values to an external UI bridge; a single-producer
// synchronous channel (internal/store.Committer.Submit) emits the same
// events to the Durable Store.
package eventbus

import "github.com/quickbyte/xfercore/common"

// Committer is the synchronous sink the bus forwards every event to,
// satisfied by *store.Committer.
type Committer interface {
	Submit(ev common.Event)
}

// Bus fans one Publish call out to the UI's async channel and the
// durable store's sync channel.
type Bus struct {
	ui        chan common.Event
	committer Committer
}

// New creates a Bus with a buffered UI channel of the given capacity.
// A bounded buffer keeps a slow UI consumer from growing memory
// without limit; Publish drops the event rather than blocking if the
// buffer is full, so observers must tolerate missed intermediate
// snapshots.
func New(committer Committer, uiBufferSize int) *Bus {
	return &Bus{
		ui:        make(chan common.Event, uiBufferSize),
		committer: committer,
	}
}

// UIEvents returns the channel the UI bridge should range over.
func (b *Bus) UIEvents() <-chan common.Event {
	return b.ui
}

// Publish sends ev to the durable store committer (blocking, so the
// committer sees events in the order Publish was called) and then
// makes a best-effort, non-blocking attempt to forward it to the UI
// channel, coalescing by dropping the event if the UI consumer is
// behind rather than stalling the reducer.
func (b *Bus) Publish(ev common.Event) {
	if b.committer != nil {
		b.committer.Submit(ev)
	}
	select {
	case b.ui <- ev:
	default:
		// UI is behind; it will catch up on the next Transfers
		// snapshot. Eventual consistency of the UI mirror, not every
		// intermediate event, is the contract.
	}
}

// Close closes the UI channel. Should only be called after all
// producers have stopped publishing.
func (b *Bus) Close() {
	close(b.ui)
}
