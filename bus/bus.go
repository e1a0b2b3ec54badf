package bus

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// defaultDeliverTimeout bounds how long a sender blocks against a full
// mailbox before Deliver surfaces ErrMailboxFull (spec §4.4 backpressure).
const defaultDeliverTimeout = 2 * time.Second

// MessageBus owns one Mailbox per registered agent id.
type MessageBus struct {
	mu             sync.RWMutex
	mailboxes      map[string]*Mailbox
	deliverTimeout time.Duration
	logger         *logging.AgentLogger
}

// New builds an empty MessageBus. logger may be nil.
func New(deliverTimeout time.Duration, logger *logging.AgentLogger) *MessageBus {
	if deliverTimeout <= 0 {
		deliverTimeout = defaultDeliverTimeout
	}
	if logger == nil {
		logger = logging.New(nil)
	}
	return &MessageBus{
		mailboxes:      make(map[string]*Mailbox),
		deliverTimeout: deliverTimeout,
		logger:         logger,
	}
}

// Register creates a mailbox for agentID with the given capacity. Calling it
// again for the same id replaces the mailbox (idempotent registration is the
// orchestrator's responsibility, not this layer's).
func (b *MessageBus) Register(agentID string, capacity int) *Mailbox {
	b.mu.Lock()
	defer b.mu.Unlock()
	mb := NewMailbox(capacity)
	b.mailboxes[agentID] = mb
	return mb
}

func (b *MessageBus) lookup(agentID string) (*Mailbox, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	mb, ok := b.mailboxes[agentID]
	return mb, ok
}

// Deliver routes msg to msg.To's mailbox, blocking on backpressure up to the
// bus's configured timeout.
func (b *MessageBus) Deliver(ctx context.Context, msg core.AgentMessage) error {
	mb, ok := b.lookup(msg.To)
	if !ok {
		return ErrUnknownMailbox
	}
	err := mb.Deliver(ctx, msg, b.deliverTimeout)
	if err == nil {
		b.logger.LogMessageDelivered(msg.From, msg.To, msg.Kind.String())
	}
	return err
}

// Drain returns and clears every buffered message for agentID.
func (b *MessageBus) Drain(agentID string) ([]core.AgentMessage, error) {
	mb, ok := b.lookup(agentID)
	if !ok {
		return nil, ErrUnknownMailbox
	}
	return mb.Drain(), nil
}

// WaitForAny suspends agentID's caller until a matching message arrives.
func (b *MessageBus) WaitForAny(ctx context.Context, agentID string, predicate func(core.AgentMessage) bool) (core.AgentMessage, error) {
	mb, ok := b.lookup(agentID)
	if !ok {
		return core.AgentMessage{}, ErrUnknownMailbox
	}
	return mb.WaitForAny(ctx, predicate)
}

// Close closes and forgets agentID's mailbox.
func (b *MessageBus) Close(agentID string) {
	b.mu.Lock()
	mb, ok := b.mailboxes[agentID]
	delete(b.mailboxes, agentID)
	b.mu.Unlock()
	if ok {
		mb.Close()
	}
}
