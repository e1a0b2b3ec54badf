package agentloop

import "github.com/hupe1980/agentcore/core"

// AgentResponse is the terminal outcome of a Run call (spec §4.1, §7
// propagation policy: even a failed agent surfaces as a normal response with
// Success=false rather than a bare Go error wherever the caller has a use for
// the partial content).
type AgentResponse struct {
	Success        bool
	Content        string
	IterationCount int
	Status         core.AgentStatus
}
