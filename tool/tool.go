// Package tool declares the Tool interface the agent loop dispatches
// through, a FunctionTool adapter that wraps a plain Go function with schema
// validation, and the ToolContext passed to every call (spec §4.6 item 2,
// §6).
package tool

import (
	"context"
	"time"

	"github.com/hupe1980/agentcore/core"
)

// Tool is anything the agent loop can dispatch a Tool action to.
type Tool interface {
	// Name is the identifier the model refers to in `Tool:` fields.
	Name() string
	// Description is shown to the model in the tool catalog.
	Description() string
	// Parameters is a JSON schema (as produced by internal/util.CreateSchema
	// or hand-written) describing the arguments this tool accepts.
	Parameters() map[string]any
	// Call executes the tool. Implementations should honor ctx cancellation
	// promptly — the loop's abort signal and per-call timeout both flow
	// through ctx.
	Call(ctx context.Context, tc *ToolContext, arguments map[string]any) (core.ToolResult, error)
}

// PermissionHandler funnels a ToolContext's Ask calls to whatever policy the
// host application enforces (interactive prompt, allowlist, always-allow).
type PermissionHandler interface {
	Ask(ctx context.Context, req core.PermissionRequest) (bool, error)
}

// AlwaysAllow is a PermissionHandler that grants every request; useful for
// tests and trusted tool sets.
type AlwaysAllow struct{}

func (AlwaysAllow) Ask(context.Context, core.PermissionRequest) (bool, error) { return true, nil }

// ToolContext is the per-call context built by the loop before invoking a
// tool (spec §4.6 item 2).
type ToolContext struct {
	SessionID   string
	AgentID     string
	CallID      string
	WorkingDir  string
	Timeout     time.Duration
	Permissions PermissionHandler
}

// Ask requests permission to perform a side-effecting action, returning
// PermissionDenied if refused.
func (tc *ToolContext) Ask(ctx context.Context, toolName, description string, details map[string]any) error {
	handler := tc.Permissions
	if handler == nil {
		handler = AlwaysAllow{}
	}
	ok, err := handler.Ask(ctx, core.PermissionRequest{Tool: toolName, Description: description, Details: details})
	if err != nil {
		return err
	}
	if !ok {
		return &core.PermissionDenied{Tool: toolName}
	}
	return nil
}
