// Package orchestrator implements the registry and lifecycle coordinator
// described in spec §4.5: it owns every agent's mailbox and cooperative
// task, routes messages between agents, and reports status/results to
// whoever launched them. Unlike the source's process-wide AgentOrchestrator
// singleton, this is an explicitly constructed value — callers own their own
// instance, which makes tests hermetic and lets a process run more than one
// orchestration tree if it ever needs to.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentcore/bus"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// RunFunc is the cooperative task an orchestrator launches per agent. It
// must block internally across suspensions (awaiting its own mailbox) and
// return only at a terminal state. Launch calls Complete when RunFunc
// returns: Failed with err's message if err is non-nil or RunFunc panics,
// Completed with result otherwise. A Complete call made by RunFunc itself
// wins, since Complete is a no-op once the agent is terminal.
type RunFunc func(ctx context.Context, agentID, task string) (result any, err error)

type handle struct {
	id       string
	name     string
	parentID string
	status   core.AgentStatus
	cancel   context.CancelFunc
	result   any
	launched bool
}

// Orchestrator is the central coordinator. Construct with New; there is no
// package-level singleton.
type Orchestrator struct {
	mu       sync.RWMutex
	agents   map[string]*handle
	children map[string][]string // parent_id -> child ids, insertion order
	nameSeq  map[string]int

	bus           *bus.MessageBus
	logger        *logging.AgentLogger
	mailboxCap    int
	shutdownGrace time.Duration
}

// New builds an Orchestrator. mailboxCap bounds every agent's mailbox
// (spec §4.4); deliverTimeout bounds Send's backpressure wait; shutdownGrace
// bounds how long Shutdown waits for tasks to observe cancellation. logger
// may be nil.
func New(mailboxCap int, deliverTimeout, shutdownGrace time.Duration, logger *logging.AgentLogger) *Orchestrator {
	if logger == nil {
		logger = logging.New(nil)
	}
	return &Orchestrator{
		agents:        make(map[string]*handle),
		children:      make(map[string][]string),
		nameSeq:       make(map[string]int),
		bus:           bus.New(deliverTimeout, logger),
		logger:        logger,
		mailboxCap:    mailboxCap,
		shutdownGrace: shutdownGrace,
	}
}

// Register allocates a process-unique, per-name-monotonic agent id
// ("name#1", "name#2", ...), creates its mailbox, and sets status Idle. It
// does not start execution.
func (o *Orchestrator) Register(name string) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nameSeq[name]++
	id := fmt.Sprintf("%s#%d", name, o.nameSeq[name])
	o.agents[id] = &handle{id: id, name: name, status: core.StatusIdle}
	o.bus.Register(id, o.mailboxCap)
	return id
}

// Launch starts agentID's cooperative task. parentID, if non-empty, records
// the parent-child relationship the orchestrator uses for child_completed /
// child_failed notification and sibling lookup. Must be called exactly once
// per id.
func (o *Orchestrator) Launch(ctx context.Context, agentID, task, parentID string, run RunFunc) error {
	o.mu.Lock()
	h, ok := o.agents[agentID]
	if !ok {
		o.mu.Unlock()
		return ErrUnknownAgent
	}
	if h.launched {
		o.mu.Unlock()
		return ErrAlreadyLaunched
	}
	h.launched = true
	h.status = core.StatusRunning
	h.parentID = parentID
	if parentID != "" {
		o.children[parentID] = append(o.children[parentID], agentID)
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	name := h.name
	o.mu.Unlock()

	o.logger.LogAgentStarted(agentID, name)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.Complete(agentID, fmt.Sprintf("panic: %v", r), core.StatusFailed)
			}
		}()
		result, err := run(runCtx, agentID, task)
		if err != nil {
			o.Complete(agentID, err.Error(), core.StatusFailed)
			return
		}
		o.Complete(agentID, result, core.StatusCompleted)
	}()

	return nil
}

// Complete records a terminal status for agentID, delivers child_completed
// or child_failed to its parent if any, removes it from its parent's
// children set, and closes its mailbox. It is idempotent: once an agent is
// terminal, further calls are no-ops, matching spec §4.5's "cancels no
// peers" and the safety-net use from Launch.
func (o *Orchestrator) Complete(agentID string, result any, status core.AgentStatus) {
	o.mu.Lock()
	h, ok := o.agents[agentID]
	if !ok || h.status.Terminal() {
		o.mu.Unlock()
		return
	}
	h.status = status
	h.result = result
	parentID := h.parentID
	o.mu.Unlock()

	o.pruneChild(parentID, agentID)
	o.bus.Close(agentID)

	if status == core.StatusFailed {
		o.logger.LogAgentFailed(agentID, fmt.Sprintf("%v", result))
	} else {
		o.logger.LogAgentCompleted(agentID, 0, 0)
	}

	if parentID == "" {
		return
	}
	kind := core.MessageKindChildCompleted
	if status == core.StatusFailed {
		kind = core.MessageKindChildFailed
	}
	_ = o.bus.Deliver(context.Background(), core.AgentMessage{
		From:    agentID,
		To:      parentID,
		Kind:    kind,
		Payload: fmt.Sprintf("%v", result),
	})
}

func (o *Orchestrator) pruneChild(parentID, childID string) {
	if parentID == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	siblings := o.children[parentID]
	for i, id := range siblings {
		if id == childID {
			o.children[parentID] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
}

// Send validates that to exists and is not terminal, then delegates to the
// message bus.
func (o *Orchestrator) Send(ctx context.Context, from, to, content string) error {
	o.mu.RLock()
	h, ok := o.agents[to]
	o.mu.RUnlock()
	if !ok {
		return ErrUnknownAgent
	}
	if h.status.Terminal() {
		return ErrTerminalAgent
	}
	return o.bus.Deliver(ctx, core.AgentMessage{From: from, To: to, Kind: core.MessageKindPeer, Payload: content, Timestamp: nowFunc()})
}

// nowFunc is a var so tests can freeze time if ever needed; defaults to
// time.Now.
var nowFunc = time.Now

// IsAlive reports whether agentID is registered and not yet terminal.
func (o *Orchestrator) IsAlive(agentID string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	h, ok := o.agents[agentID]
	return ok && !h.status.Terminal()
}

// Status returns agentID's current status.
func (o *Orchestrator) Status(agentID string) (core.AgentStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	h, ok := o.agents[agentID]
	if !ok {
		return 0, ErrUnknownAgent
	}
	return h.status, nil
}

// Result returns agentID's terminal result, if any.
func (o *Orchestrator) Result(agentID string) (any, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	h, ok := o.agents[agentID]
	if !ok {
		return nil, ErrUnknownAgent
	}
	return h.result, nil
}

// SetSuspended is called by an agent loop when it suspends, so Status and
// IsAlive reflect it accurately between message deliveries.
func (o *Orchestrator) SetSuspended(agentID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	h, ok := o.agents[agentID]
	if !ok {
		return ErrUnknownAgent
	}
	h.status = core.StatusSuspended
	return nil
}

// SetRunning is called by an agent loop when it resumes from suspension.
func (o *Orchestrator) SetRunning(agentID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	h, ok := o.agents[agentID]
	if !ok {
		return ErrUnknownAgent
	}
	h.status = core.StatusRunning
	return nil
}

// FindSibling resolves a peer agent by display name, restricted to agents
// sharing requesterID's parent — mirroring the source's sibling-only
// find_agent_by_name. Returns "" if requester has no parent or no sibling by
// that name is registered.
func (o *Orchestrator) FindSibling(name, requesterID string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	requester, ok := o.agents[requesterID]
	if !ok || requester.parentID == "" {
		return ""
	}
	for _, siblingID := range o.children[requester.parentID] {
		if h, ok := o.agents[siblingID]; ok && h.name == name {
			return siblingID
		}
	}
	return ""
}

// Bus exposes the underlying message bus for the agent loop's drain/wait
// operations.
func (o *Orchestrator) Bus() *bus.MessageBus { return o.bus }

// Children returns a snapshot of agentID's currently pending children.
func (o *Orchestrator) Children(agentID string) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	src := o.children[agentID]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Shutdown cancels every launched, non-terminal agent's context, closes those
// agents' mailboxes, and waits up to shutdownGrace for tasks to observe
// cancellation. Mailboxes of registered agents that were never launched are
// left open. It does not
// guarantee tasks have actually exited by the time it returns — callers that
// need that should track their own WaitGroup around RunFunc.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(o.agents))
	ids := make([]string, 0, len(o.agents))
	for id, h := range o.agents {
		if h.cancel != nil && !h.status.Terminal() {
			cancels = append(cancels, h.cancel)
			ids = append(ids, id)
		}
	}
	o.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	for _, id := range ids {
		o.bus.Close(id)
	}
	if o.shutdownGrace > 0 {
		time.Sleep(o.shutdownGrace)
	}
}
