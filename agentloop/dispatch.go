package agentloop

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/parser"
	"github.com/hupe1980/agentcore/tool"
)

// parseWithRetry implements spec §4.2/§7's parse-retry policy: try to parse
// the model's last reply into an Action; on failure, feed the parse error
// plus the format instruction back to the model and try again, up to
// ParseMaxRetries attempts total. It returns the successfully parsed action
// together with the reply text it was parsed from (retries replace reply).
func (l *Loop) parseWithRetry(ctx context.Context, reply string, iteration int) (core.Action, string, error) {
	maxRetries := l.opts.ParseMaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		action, err := l.parser.Parse(reply)
		if err == nil {
			return action, reply, nil
		}
		lastErr = err
		if cb := l.opts.Callbacks.OnParseError; cb != nil {
			attempt := attempt
			invoke(l.logger, "OnParseError", func() { cb(l.agentID, iteration, attempt+1, err) })
		}

		if attempt == maxRetries-1 {
			break
		}

		correction := fmt.Sprintf("Parse error: %v\n\nPlease follow the exact format:\n%s", err, parser.FormatInstruction())
		next, chatErr := l.chat(ctx, correction, core.RoleUser)
		if chatErr != nil {
			return core.Action{}, reply, chatErr
		}
		reply = next
	}
	return core.Action{}, reply, lastErr
}

// dispatchTool implements spec §4.6 item 2: look up the tool, apply the
// configured timeout, run it, truncate its output, and feed the result back
// as a RoleTool observation.
func (l *Loop) dispatchTool(ctx context.Context, action core.Action) (string, error) {
	if cb := l.opts.Callbacks.OnToolCall; cb != nil {
		invoke(l.logger, "OnToolCall", func() { cb(l.agentID, action.ToolName, action.Arguments) })
	}

	t, ok := l.tools.Get(action.ToolName)
	if !ok {
		observation := fmt.Sprintf("Error: unknown tool %q. Available tools:\n%s", action.ToolName, l.tools.Describe())
		return l.chat(ctx, observation, core.RoleTool)
	}

	callCtx := ctx
	var cancel context.CancelFunc
	if l.opts.ToolTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, l.opts.ToolTimeout)
		defer cancel()
	}

	tc := &tool.ToolContext{
		SessionID:   l.sessionID,
		AgentID:     l.agentID,
		CallID:      uuid.NewString(),
		WorkingDir:  l.opts.WorkingDir,
		Timeout:     l.opts.ToolTimeout,
		Permissions: l.opts.Permissions,
	}

	result, err := t.Call(callCtx, tc, action.Arguments)
	if err != nil {
		result = core.ToolResult{Error: err.Error()}
	}
	if cb := l.opts.Callbacks.OnToolResult; cb != nil {
		invoke(l.logger, "OnToolResult", func() { cb(l.agentID, action.ToolName, result) })
	}

	observation := formatToolObservation(action.ToolName, result)
	observation = l.opts.Truncator.Truncate(observation)
	return l.chat(ctx, observation, core.RoleTool)
}

func formatToolObservation(toolName string, result core.ToolResult) string {
	if result.Failed() {
		return fmt.Sprintf("Tool %q failed: %s", toolName, result.Error)
	}
	if result.Title != "" {
		return fmt.Sprintf("%s\n%s", result.Title, result.Output)
	}
	return result.Output
}

// dispatchSendMessage implements the SendMessage action (spec §3, §4.6):
// non-blocking delivery to a peer, resolving a bare display name to a
// sibling agent id when the model doesn't already know the full id.
func (l *Loop) dispatchSendMessage(ctx context.Context, action core.Action) (string, error) {
	to := action.To
	if resolved := l.orch.FindSibling(to, l.agentID); resolved != "" {
		to = resolved
	}

	err := l.orch.Send(ctx, l.agentID, to, action.Content)
	var observation string
	if err != nil {
		observation = fmt.Sprintf("Error: failed to send message to %q: %v", action.To, err)
	} else {
		observation = fmt.Sprintf("Message sent to %s.", to)
	}
	return l.chat(ctx, observation, core.RoleTool)
}

// dispatchWait implements WaitForSubagents and Wait (spec §3, §4.4, §8
// Boundaries): suspend on the mailbox, resume on the first arrival, drain
// whatever else is buffered at that moment, and feed a combined observation
// back. wait_for_subagents issued with no pending children is treated as an
// error observation rather than a deadlock, per §8.
func (l *Loop) dispatchWait(ctx context.Context, action core.Action) (string, error) {
	if action.Type == core.ActionWaitForSubagents && len(l.state.PendingChildren) == 0 {
		return l.chat(ctx, "Error: wait_for_subagents issued with no pending subagents.", core.RoleTool)
	}

	_ = l.state.Transition(core.StatusSuspended)
	_ = l.orch.SetSuspended(l.agentID)
	l.logger.LogAgentSuspended(l.agentID, action.Type.String())

	first, err := l.orch.Bus().WaitForAny(ctx, l.agentID, nil)
	if err != nil {
		return "", err
	}
	rest, err := l.orch.Bus().Drain(l.agentID)
	if err != nil {
		return "", err
	}
	messages := append([]core.AgentMessage{first}, rest...)

	_ = l.state.Transition(core.StatusRunning)
	_ = l.orch.SetRunning(l.agentID)
	l.logger.LogAgentResumed(l.agentID, len(messages))

	for _, msg := range messages {
		l.state.ReceivedMessages = append(l.state.ReceivedMessages, msg)
		if msg.Kind == core.MessageKindChildCompleted || msg.Kind == core.MessageKindChildFailed {
			l.state.RemovePendingChild(msg.From)
			status := core.StatusCompleted
			if msg.Kind == core.MessageKindChildFailed {
				status = core.StatusFailed
			}
			if cb := l.opts.Callbacks.OnSubagentResult; cb != nil {
				msg := msg
				invoke(l.logger, "OnSubagentResult", func() { cb(l.agentID, msg.From, status, msg.Payload) })
			}
		}
	}

	reply, err := l.chat(ctx, formatResumeObservation(messages), core.RoleTool)
	if err != nil {
		return "", err
	}
	l.compactIfNeeded(ctx)
	return reply, nil
}

func formatResumeObservation(messages []core.AgentMessage) string {
	out := ""
	for _, msg := range messages {
		switch msg.Kind {
		case core.MessageKindChildCompleted:
			out += fmt.Sprintf("Subagent %s completed: %s\n", msg.From, msg.Payload)
		case core.MessageKindChildFailed:
			out += fmt.Sprintf("Subagent %s failed: %s\n", msg.From, msg.Payload)
		case core.MessageKindPeer:
			out += fmt.Sprintf("Message from %s: %s\n", msg.From, msg.Payload)
		default:
			out += fmt.Sprintf("Woke up: %s\n", msg.Payload)
		}
	}
	return out
}

// dispatchLaunchSubagents implements LaunchSubagents (spec §3, §5): register
// and launch one child per spec, tracking each as pending, and feed back an
// observation confirming what was started. Failing to launch one spec is
// reported as an observation, not a fatal error for the parent.
func (l *Loop) dispatchLaunchSubagents(ctx context.Context, action core.Action) (string, error) {
	if cb := l.opts.Callbacks.OnSubagentCall; cb != nil {
		invoke(l.logger, "OnSubagentCall", func() { cb(l.agentID, action.Specs) })
	}

	var started []string
	var failed []string

	for _, spec := range action.Specs {
		template, ok := l.opts.Catalog[spec.SubagentName]
		if !ok {
			failed = append(failed, fmt.Sprintf("%s: unknown subagent name", spec.SubagentName))
			continue
		}

		displayName := spec.ChildDisplayName
		if displayName == "" {
			displayName = spec.SubagentName
		}
		childID := l.orch.Register(displayName)

		childOpts := l.opts
		childOpts.MaxIterations = template.MaxIterations
		if childOpts.MaxIterations <= 0 {
			childOpts.MaxIterations = l.opts.MaxIterations
		}

		task := spec.Task
		if spec.Context != "" {
			task = fmt.Sprintf("%s\n\nContext:\n%s", task, spec.Context)
		}

		run := AsRunFunc(func(agentID string) *Loop {
			return New(agentID, spec.SubagentName, template.ClientFactory(), template.SystemPrompt, template.Tools, l.orch, func(o *Options) {
				*o = childOpts
			})
		})

		if err := l.orch.Launch(ctx, childID, task, l.agentID, run); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", spec.SubagentName, err))
			continue
		}
		l.state.AddPendingChild(childID)
		started = append(started, childID)
	}

	observation := "Launched subagents: "
	if len(started) == 0 {
		observation = "No subagents launched."
	} else {
		for i, id := range started {
			if i > 0 {
				observation += ", "
			}
			observation += id
		}
		observation += "."
	}
	for _, f := range failed {
		observation += fmt.Sprintf("\nFailed to launch %s", f)
	}
	return l.chat(ctx, observation, core.RoleTool)
}
