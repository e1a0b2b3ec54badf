package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/internal/util"
)

// FunctionTool adapts a plain Go function to the Tool interface, validating
// arguments against a declared JSON schema before invoking it. It holds no
// mutable state after construction and is safe for concurrent use by
// multiple agent loops.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, tc *ToolContext, args map[string]any) (core.ToolResult, error)
}

// NewFunctionTool builds a FunctionTool from an explicit schema.
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, tc *ToolContext, args map[string]any) (core.ToolResult, error),
) *FunctionTool {
	return &FunctionTool{name: name, description: description, parameters: parameters, fn: fn}
}

// NewFunctionToolFromStruct derives the parameter schema from a struct via
// reflection, equivalent to util.CreateSchema(structType).
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, tc *ToolContext, args map[string]any) (core.ToolResult, error),
) *FunctionTool {
	return NewFunctionTool(name, description, util.CreateSchema(structType), fn)
}

func (t *FunctionTool) Name() string               { return t.name }
func (t *FunctionTool) Description() string        { return t.description }
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates arguments against the declared schema, then invokes the
// wrapped function. Validation failures never reach fn — they are reported
// as a ToolResult error observation and as a *ToolError, giving callers
// either surface to inspect.
func (t *FunctionTool) Call(ctx context.Context, tc *ToolContext, args map[string]any) (core.ToolResult, error) {
	if err := util.ValidateParameters(args, t.parameters); err != nil {
		msg := fmt.Sprintf("parameter validation failed: %v", err)
		return core.ToolResult{Error: msg}, &ToolError{Tool: t.name, Message: msg, Code: "VALIDATION_ERROR", Details: err}
	}

	result, err := t.fn(ctx, tc, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			return core.ToolResult{Error: toolErr.Message}, toolErr
		}
		return core.ToolResult{Error: err.Error()}, &ToolError{Tool: t.name, Message: err.Error(), Code: "EXECUTION_ERROR"}
	}
	return result, nil
}
