package core

// LaunchedSubagent is the record a parent holds for a child it started
// (spec §3). It is retrieved via the orchestrator, never mutated directly by
// the parent — parent-child is a non-owning relation.
type LaunchedSubagent struct {
	ID            string
	DisplayName   string
	SubagentName  string
	Task          string
	ParentID      string
	StartedAt     int64 // unix nanos; set by the caller, never time.Now() inside core
	CompletedAt   *int64
	ResultSummary *string
	Status        AgentStatus
}

// AgentState is the snapshot describing a running agent across suspensions
// (spec §3). HistoryDigest is an opaque reference into the model client's own
// conversation store; core never inspects it.
type AgentState struct {
	AgentID          string
	Status           AgentStatus
	IterationCount   int
	MaxIterations    int
	HistoryDigest    string
	PendingChildren  map[string]struct{}
	ReceivedMessages []AgentMessage
	LastAction       *Action
}

// NewAgentState builds a fresh Idle state for a newly registered agent.
func NewAgentState(agentID string, maxIterations int) *AgentState {
	return &AgentState{
		AgentID:         agentID,
		Status:          StatusIdle,
		MaxIterations:   maxIterations,
		PendingChildren: make(map[string]struct{}),
	}
}

// IsSuspendConsistent checks the invariant from spec §3:
// status=Suspended => pending_children != {} OR last_action in {WaitForSubagents, Wait}.
func (s *AgentState) IsSuspendConsistent() bool {
	if s.Status != StatusSuspended {
		return true
	}
	if len(s.PendingChildren) > 0 {
		return true
	}
	if s.LastAction == nil {
		return false
	}
	return s.LastAction.Type == ActionWaitForSubagents || s.LastAction.Type == ActionWait
}

// AddPendingChild records that a child launch is outstanding.
func (s *AgentState) AddPendingChild(childID string) {
	s.PendingChildren[childID] = struct{}{}
}

// RemovePendingChild clears a resolved child and reports how many remain.
func (s *AgentState) RemovePendingChild(childID string) (remaining int) {
	delete(s.PendingChildren, childID)
	return len(s.PendingChildren)
}
