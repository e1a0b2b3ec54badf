// Package bus implements the per-agent mailboxes and the message bus that
// routes AgentMessages between them (spec §4.4). Delivery preserves send
// order per (from, to) pair; there is no total order across senders.
package bus

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentcore/core"
)

// Mailbox is a bounded FIFO of core.AgentMessage belonging to one agent.
// Capacity <= 0 means unbounded. A Mailbox is safe for concurrent use.
type Mailbox struct {
	mu       sync.Mutex
	queue    []core.AgentMessage
	capacity int
	closed   bool
	wake     chan struct{}
}

// NewMailbox constructs an open, empty mailbox with the given capacity.
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{capacity: capacity, wake: make(chan struct{})}
}

// signal wakes every goroutine currently blocked in Deliver or WaitForAny.
// Callers must hold mu.
func (m *Mailbox) signal() {
	close(m.wake)
	m.wake = make(chan struct{})
}

// Deliver enqueues msg, waking any goroutine waiting on this mailbox. If the
// mailbox is at capacity it blocks the sender until room frees up or timeout
// elapses, returning ErrMailboxFull on timeout and ErrMailboxClosed if the
// mailbox is (or becomes) closed while waiting.
func (m *Mailbox) Deliver(ctx context.Context, msg core.AgentMessage, timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return ErrMailboxClosed
		}
		if m.capacity <= 0 || len(m.queue) < m.capacity {
			m.queue = append(m.queue, msg)
			m.signal()
			m.mu.Unlock()
			return nil
		}
		wake := m.wake
		m.mu.Unlock()

		select {
		case <-wake:
			continue
		case <-deadline:
			return ErrMailboxFull
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Drain removes and returns every currently buffered message, in FIFO order.
// It never blocks.
func (m *Mailbox) Drain() []core.AgentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil
	}
	out := m.queue
	m.queue = nil
	m.signal()
	return out
}

// WaitForAny suspends until a buffered message satisfies predicate (nil
// means "any message"), then removes and returns it. It re-checks already
// buffered messages first, so a message delivered before the wait started is
// never missed.
func (m *Mailbox) WaitForAny(ctx context.Context, predicate func(core.AgentMessage) bool) (core.AgentMessage, error) {
	if predicate == nil {
		predicate = func(core.AgentMessage) bool { return true }
	}

	for {
		m.mu.Lock()
		for i, msg := range m.queue {
			if predicate(msg) {
				m.queue = append(m.queue[:i:i], m.queue[i+1:]...)
				m.signal()
				m.mu.Unlock()
				return msg, nil
			}
		}
		if m.closed {
			m.mu.Unlock()
			return core.AgentMessage{}, ErrMailboxClosed
		}
		wake := m.wake
		m.mu.Unlock()

		select {
		case <-wake:
			continue
		case <-ctx.Done():
			return core.AgentMessage{}, ctx.Err()
		}
	}
}

// Close marks the mailbox closed and wakes any blocked callers. Further
// Deliver/WaitForAny calls return ErrMailboxClosed.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.signal()
}

// Len reports the number of currently buffered messages.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
