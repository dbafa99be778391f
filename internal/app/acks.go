package app

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// AckBroker matches outbound requests that expect a client acknowledgement
// (ready checks, guesses) with the inbound responses. Every request gets a
// uuid and a buffered channel; whoever waits on the channel owns the
// deadline. Once a request is cancelled or resolved, late responses for its
// id are ignored, never applied to a since-closed tally.
type AckBroker struct {
	mu      sync.Mutex
	pending map[string]chan json.RawMessage
}

func NewAckBroker() *AckBroker {
	return &AckBroker{pending: make(map[string]chan json.RawMessage)}
}

// Expect registers a new pending request and returns its id plus the channel
// the single response will arrive on.
func (b *AckBroker) Expect() (string, <-chan json.RawMessage) {
	id := uuid.NewString()
	ch := make(chan json.RawMessage, 1)
	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Resolve delivers a response. It reports false for unknown or already
// expired ids.
func (b *AckBroker) Resolve(id string, payload json.RawMessage) bool {
	b.mu.Lock()
	ch, ok := b.pending[id]
	if ok {
		delete(b.pending, id)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}
	ch <- payload
	return true
}

// Cancel expires a pending request so any late response is dropped.
func (b *AckBroker) Cancel(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

func (b *AckBroker) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
