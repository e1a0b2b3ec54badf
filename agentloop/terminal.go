package agentloop

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcore/core"
)

// finishSuccess implements the ordinary Finish path (spec §3, §4.1).
func (l *Loop) finishSuccess(content string) *AgentResponse {
	_ = l.state.Transition(core.StatusCompleted)
	resp := AgentResponse{Success: true, Content: content, IterationCount: l.state.IterationCount, Status: core.StatusCompleted}
	l.logger.LogAgentCompleted(l.agentID, l.state.IterationCount, 0)
	if cb := l.opts.Callbacks.OnAgentFinish; cb != nil {
		invoke(l.logger, "OnAgentFinish", func() { cb(l.agentID, resp) })
	}
	return &resp
}

// finishMaxIterations implements the iteration-cap boundary (spec §7): a
// synthesized Finish with a diagnostic body, success=false, but the agent
// still reaches Completed rather than Failed — running out of turns is not
// the same as erroring.
func (l *Loop) finishMaxIterations() *AgentResponse {
	content := fmt.Sprintf("Reached maximum iterations (%d) without finishing.", l.opts.MaxIterations)
	_ = l.state.Transition(core.StatusCompleted)
	resp := AgentResponse{Success: false, Content: content, IterationCount: l.state.IterationCount, Status: core.StatusCompleted}
	l.logger.LogAgentCompleted(l.agentID, l.state.IterationCount, 0)
	if cb := l.opts.Callbacks.OnAgentFinish; cb != nil {
		invoke(l.logger, "OnAgentFinish", func() { cb(l.agentID, resp) })
	}
	return &resp
}

// finishWithParseFailure implements the parse-retry escalation (spec §4.2,
// §7): after exhausting ParseMaxRetries on the same model turn, the agent is
// marked Failed with a diagnostic naming the last parse error.
func (l *Loop) finishWithParseFailure(perr error) *AgentResponse {
	content := fmt.Sprintf("Failed to parse model output after %d attempt(s): %v", l.opts.ParseMaxRetries, perr)
	_ = l.state.Transition(core.StatusFailed)
	resp := AgentResponse{Success: false, Content: content, IterationCount: l.state.IterationCount, Status: core.StatusFailed}
	l.logger.LogAgentFailed(l.agentID, content)
	if cb := l.opts.Callbacks.OnAgentFinish; cb != nil {
		invoke(l.logger, "OnAgentFinish", func() { cb(l.agentID, resp) })
	}
	return &resp
}

// cancel implements cooperative shutdown (spec §4.5 Shutdown): a best-effort
// abort that marks the agent Failed with a "cancelled" reason rather than
// leaving it in an ambiguous non-terminal state.
func (l *Loop) cancel() *AgentResponse {
	content := "cancelled"
	_ = l.state.Transition(core.StatusFailed)
	resp := AgentResponse{Success: false, Content: content, IterationCount: l.state.IterationCount, Status: core.StatusFailed}
	l.logger.LogAgentFailed(l.agentID, content)
	if cb := l.opts.Callbacks.OnAgentFinish; cb != nil {
		invoke(l.logger, "OnAgentFinish", func() { cb(l.agentID, resp) })
	}
	return &resp
}

// abortOnModelError implements the terminal branch of spec §7's Model call
// error kind: once retries and emergency compaction have been exhausted by
// chat, the failure is surfaced as a Failed agent rather than a Go panic or
// an unbounded retry loop. A cancelled context is reported as cancellation,
// not a model error, since ctx.Err() is what actually ended the call.
func (l *Loop) abortOnModelError(ctx context.Context, err error) *AgentResponse {
	if ctx.Err() != nil {
		return l.cancel()
	}
	content := fmt.Sprintf("model call failed: %v", err)
	_ = l.state.Transition(core.StatusFailed)
	resp := AgentResponse{Success: false, Content: content, IterationCount: l.state.IterationCount, Status: core.StatusFailed}
	l.logger.LogAgentFailed(l.agentID, content)
	if cb := l.opts.Callbacks.OnAgentFinish; cb != nil {
		invoke(l.logger, "OnAgentFinish", func() { cb(l.agentID, resp) })
	}
	return &resp
}
