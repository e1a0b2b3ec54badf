package agentloop

import (
	"fmt"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// Callbacks are optional hooks into a Loop's execution lifecycle. Unlike the
// engine package's extensible CallbackType/Callback registry (built for an
// open-ended set of session events), the loop's hook points are fixed and
// known up front, one per stage of spec §4.2's turn cycle, so a struct of
// optional functions is a plainer fit than a registry. Every field may be
// nil; nil hooks are simply skipped.
type Callbacks struct {
	OnAgentStart     func(agentID, task string)
	OnIterationStart func(agentID string, iteration int)
	OnLLMRequest     func(agentID string, iteration int, prompt string, role core.Role)
	OnLLMResponse    func(agentID string, iteration int, response string)
	OnParseSuccess   func(agentID string, iteration int, action core.Action)
	OnParseError     func(agentID string, iteration, attempt int, err error)
	OnToolCall       func(agentID, toolName string, arguments map[string]any)
	OnToolResult     func(agentID, toolName string, result core.ToolResult)
	OnSubagentCall   func(agentID string, specs []core.SubagentSpec)
	OnSubagentResult func(agentID, childID string, status core.AgentStatus, result string)
	OnIterationEnd   func(agentID string, iteration int, actionType core.ActionKind)
	OnAgentFinish    func(agentID string, response AgentResponse)
}

// invoke runs fn if non-nil, recovering and logging a panic rather than
// letting a misbehaving hook take down the agent it's merely observing.
func invoke(logger *logging.AgentLogger, name string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("callback %s panicked: %v", name, r))
		}
	}()
	fn()
}
