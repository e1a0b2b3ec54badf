package tool

import "fmt"

// ToolError is a uniform error shape wrapping validation and execution
// failures from Call, so the loop can render a consistent observation
// regardless of which tool or failure mode produced it.
type ToolError struct {
	Tool    string
	Message string
	Code    string
	Details any
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q failed [%s]: %s", e.Tool, e.Code, e.Message)
}
