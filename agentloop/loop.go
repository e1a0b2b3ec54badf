// Package agentloop implements the per-agent execution cycle (spec §4):
// prompt the model, parse its text into an Action, dispatch that action
// (tool call, subagent launch, suspend-and-wait, peer message, or finish),
// and feed the result back as the next turn's observation. It wires together
// core, parser, tokencount, compaction, bus, orchestrator, tool and model
// into the single cooperative task an Orchestrator runs per agent.
package agentloop

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentcore/compaction"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/orchestrator"
	"github.com/hupe1980/agentcore/parser"
	"github.com/hupe1980/agentcore/tokencount"
	"github.com/hupe1980/agentcore/tool"
)

// Options configures a Loop. Zero-value fields are filled in by
// DefaultOptions where a caller only overrides a subset.
type Options struct {
	MaxIterations   int
	ParseMaxRetries int
	ToolTimeout     time.Duration
	Compaction      compaction.Config
	Catalog         Catalog
	Callbacks       Callbacks
	Permissions     tool.PermissionHandler
	WorkingDir      string
	Truncator       OutputTruncator
	Logger          *logging.AgentLogger
}

// DefaultOptions matches spec §6's defaults: 15 max iterations, 3 parse
// retries, a 30s tool timeout, and compaction enabled at its own defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations:   15,
		ParseMaxRetries: 3,
		ToolTimeout:     30 * time.Second,
		Compaction:      compaction.DefaultConfig(),
		Truncator:       DefaultOutputTruncator(),
		Permissions:     tool.AlwaysAllow{},
	}
}

// Loop drives one agent's turn cycle to completion. It is not safe for
// concurrent use by more than one goroutine — each agent's cooperative task
// owns exactly one Loop.
type Loop struct {
	agentID   string
	name      string
	sessionID string

	client       model.Client
	systemPrompt string
	tools        *tool.Registry
	orch         *orchestrator.Orchestrator

	parser    *parser.OutputParser
	counter   tokencount.Counter
	detector  *compaction.Detector
	compactor *compaction.Compactor

	opts   Options
	logger *logging.AgentLogger
	state  *core.AgentState
}

// New builds a Loop for agentID. agentID must already be registered with
// orch (via Register) but not yet launched; the caller is expected to invoke
// Run from inside the RunFunc it passes to Launch (see AsRunFunc).
func New(agentID, name string, client model.Client, systemPrompt string, tools *tool.Registry, orch *orchestrator.Orchestrator, optFns ...func(*Options)) *Loop {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if tools == nil {
		tools = tool.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(nil)
	}
	logger := opts.Logger.WithAgent(agentID).WithComponent("loop")

	strategy := opts.Compaction.CounterStrategy
	counter, err := tokencount.New(strategy)
	if err != nil {
		logger.Warn("invalid counter strategy %q, falling back to simple: %v", strategy, err)
		counter, _ = tokencount.New("simple")
	}

	l := &Loop{
		agentID:      agentID,
		name:         name,
		sessionID:    uuid.NewString(),
		client:       client,
		systemPrompt: systemPrompt,
		tools:        tools,
		orch:         orch,
		parser:       parser.New(),
		counter:      counter,
		detector:     compaction.NewDetector(opts.Compaction, counter),
		opts:         opts,
		logger:       logger,
		state:        core.NewAgentState(agentID, opts.MaxIterations),
	}
	l.compactor = compaction.NewCompactor(opts.Compaction, counter, l.summarize, logger)
	return l
}

// summarize implements compaction.Summarizer by borrowing the loop's own
// model client under a fresh, temporary history: the client's real history
// is snapshotted, cleared, used for exactly one chat call, then restored, so
// compaction never leaves a trace in the agent's own conversation (spec §4.3
// Summarize step).
func (l *Loop) summarize(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	saved := l.client.GetHistory()
	l.client.ResetHistory()
	defer l.client.SetHistory(saved)
	return l.client.Chat(ctx, userPrompt, systemPrompt, core.RoleUser)
}

// AsRunFunc adapts a per-agent Loop factory into the orchestrator.RunFunc
// shape Launch requires, translating a Failed AgentResponse into the
// (content, err) pair that makes Orchestrator.Complete mark the agent Failed and
// notify its parent with child_failed instead of child_completed.
func AsRunFunc(build func(agentID string) *Loop) orchestrator.RunFunc {
	return func(ctx context.Context, agentID, task string) (any, error) {
		resp := build(agentID).Run(ctx, task)
		if resp.Status == core.StatusFailed {
			return resp.Content, &FailedError{AgentID: agentID, Content: resp.Content}
		}
		return resp.Content, nil
	}
}

// FailedError wraps a Failed agent's final content so AsRunFunc can surface
// it to Orchestrator.Launch's (result, err) contract without losing the text.
type FailedError struct {
	AgentID string
	Content string
}

func (e *FailedError) Error() string { return e.AgentID + ": " + e.Content }

// Run executes the full turn cycle described by spec §4.1-§4.3 until the
// agent finishes, is cancelled, or exhausts its iteration budget. It always
// returns a well-formed AgentResponse; a Go error is never the mechanism for
// reporting an agent-level failure (spec §7 propagation policy).
func (l *Loop) Run(ctx context.Context, task string) *AgentResponse {
	_ = l.state.Transition(core.StatusRunning)
	if cb := l.opts.Callbacks.OnAgentStart; cb != nil {
		invoke(l.logger, "OnAgentStart", func() { cb(l.agentID, task) })
	}

	reply, err := l.chat(ctx, task, core.RoleUser)
	if err != nil {
		return l.abortOnModelError(ctx, err)
	}
	l.compactIfNeeded(ctx)

	for l.state.IterationCount < l.opts.MaxIterations {
		if ctx.Err() != nil {
			return l.cancel()
		}

		l.state.IterationCount++
		iteration := l.state.IterationCount
		if cb := l.opts.Callbacks.OnIterationStart; cb != nil {
			invoke(l.logger, "OnIterationStart", func() { cb(l.agentID, iteration) })
		}

		l.compactIfNeeded(ctx)

		action, reply2, perr := l.parseWithRetry(ctx, reply, iteration)
		if perr != nil {
			return l.finishWithParseFailure(perr)
		}
		reply = reply2
		l.state.LastAction = &action
		if cb := l.opts.Callbacks.OnParseSuccess; cb != nil {
			invoke(l.logger, "OnParseSuccess", func() { cb(l.agentID, iteration, action) })
		}

		var dispatchErr error
		switch action.Type {
		case core.ActionFinish:
			return l.finishSuccess(action.FinishContent)
		case core.ActionTool:
			reply, dispatchErr = l.dispatchTool(ctx, action)
		case core.ActionLaunchSubagents:
			reply, dispatchErr = l.dispatchLaunchSubagents(ctx, action)
		case core.ActionWaitForSubagents, core.ActionWait:
			reply, dispatchErr = l.dispatchWait(ctx, action)
		case core.ActionSendMessage:
			reply, dispatchErr = l.dispatchSendMessage(ctx, action)
		}
		if dispatchErr != nil {
			if ctx.Err() != nil {
				return l.cancel()
			}
			return l.abortOnModelError(ctx, dispatchErr)
		}

		if cb := l.opts.Callbacks.OnIterationEnd; cb != nil {
			invoke(l.logger, "OnIterationEnd", func() { cb(l.agentID, iteration, action.Type) })
		}
	}

	return l.finishMaxIterations()
}

// chat wraps client.Chat with the emergency-compaction-and-retry-once
// contract from spec §4.3: a "context length" style provider error triggers
// a forced compaction and a single retry before the error is allowed to
// surface.
func (l *Loop) chat(ctx context.Context, prompt string, role core.Role) (string, error) {
	iteration := l.state.IterationCount
	if cb := l.opts.Callbacks.OnLLMRequest; cb != nil {
		invoke(l.logger, "OnLLMRequest", func() { cb(l.agentID, iteration, prompt, role) })
	}

	reply, err := l.client.Chat(ctx, prompt, l.systemPrompt, role)
	if err != nil && isContextLengthError(err) {
		l.forceCompact(ctx)
		reply, err = l.client.Chat(ctx, prompt, l.systemPrompt, role)
	}
	if err != nil {
		return "", err
	}

	if cb := l.opts.Callbacks.OnLLMResponse; cb != nil {
		invoke(l.logger, "OnLLMResponse", func() { cb(l.agentID, iteration, reply) })
	}
	return reply, nil
}

func isContextLengthError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context length") || strings.Contains(msg, "context_length") || strings.Contains(msg, "maximum context")
}

// compactIfNeeded runs the Detect step and, if triggered, the Summarize and
// Validate steps, replacing the client's history in place on success (spec
// §4.3). It is best-effort: a failed compaction leaves history untouched.
func (l *Loop) compactIfNeeded(ctx context.Context) {
	history := l.client.GetHistory()
	should, current, threshold := l.detector.ShouldCompact(history, l.client.Name())
	if !should {
		return
	}
	l.logger.LogCompactionTriggered(l.agentID, current, threshold)
	compacted, committed := l.compactor.Compact(ctx, l.agentID, history, l.client.Name())
	if committed {
		l.client.SetHistory(compacted)
	}
}

// forceCompact runs compaction unconditionally, ignoring the Detect
// threshold, used as the emergency response to a context-length error.
func (l *Loop) forceCompact(ctx context.Context) {
	history := l.client.GetHistory()
	compacted, committed := l.compactor.Compact(ctx, l.agentID, history, l.client.Name())
	if committed {
		l.client.SetHistory(compacted)
	}
}
