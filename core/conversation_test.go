package core_test

import (
	"testing"

	"github.com/hupe1980/agentcore/core"
	"github.com/stretchr/testify/assert"
)

func TestConversationMessageConstructors(t *testing.T) {
	assert.Equal(t, core.RoleSystem, core.NewSystemMessage("s").Role)
	assert.Equal(t, core.RoleUser, core.NewUserMessage("u").Role)
	assert.Equal(t, core.RoleAssistant, core.NewAssistantMessage("a").Role)
	assert.Equal(t, core.RoleTool, core.NewToolMessage("t").Role)
}

func TestToolResultFailed(t *testing.T) {
	ok := core.ToolResult{Output: "42"}
	assert.False(t, ok.Failed())

	bad := core.ToolResult{Error: "boom"}
	assert.True(t, bad.Failed())
}

func TestPermissionDeniedError(t *testing.T) {
	err := &core.PermissionDenied{Tool: "shell_exec"}
	assert.Contains(t, err.Error(), "shell_exec")

	withReason := &core.PermissionDenied{Tool: "shell_exec", Reason: "not on allowlist"}
	assert.Contains(t, withReason.Error(), "not on allowlist")
}
