package core_test

import (
	"testing"

	"github.com/hupe1980/agentcore/core"
	"github.com/stretchr/testify/assert"
)

func TestNewToolAction(t *testing.T) {
	a := core.NewToolAction("checking weather", "get_weather", map[string]any{"city": "Berlin"})
	assert.Equal(t, core.ActionTool, a.Type)
	assert.Equal(t, "get_weather", a.ToolName)
	assert.Equal(t, "Berlin", a.Arguments["city"])
}

func TestNewToolActionNilArguments(t *testing.T) {
	a := core.NewToolAction("", "noop", nil)
	assert.NotNil(t, a.Arguments)
	assert.Empty(t, a.Arguments)
}

func TestNewLaunchSubagentsAction(t *testing.T) {
	specs := []core.SubagentSpec{{SubagentName: "researcher", Task: "find facts"}}
	a := core.NewLaunchSubagentsAction("delegating", specs)
	assert.Equal(t, core.ActionLaunchSubagents, a.Type)
	assert.Len(t, a.Specs, 1)
	assert.Equal(t, "researcher", a.Specs[0].SubagentName)
}

func TestNewSendMessageAction(t *testing.T) {
	a := core.NewSendMessageAction("telling peer", "worker#2", "status update")
	assert.Equal(t, core.ActionSendMessage, a.Type)
	assert.Equal(t, "worker#2", a.To)
	assert.Equal(t, "status update", a.Content)
}

func TestNewFinishAction(t *testing.T) {
	a := core.NewFinishAction("done", "final answer")
	assert.Equal(t, core.ActionFinish, a.Type)
	assert.Equal(t, "final answer", a.FinishContent)
}

func TestActionKindString(t *testing.T) {
	cases := map[core.ActionKind]string{
		core.ActionTool:               "tool",
		core.ActionLaunchSubagents:    "launch_subagents",
		core.ActionWaitForSubagents:   "wait_for_subagents",
		core.ActionWait:               "wait",
		core.ActionSendMessage:        "send_message",
		core.ActionFinish:             "finish",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
	assert.Contains(t, core.ActionKind(99).String(), "unknown")
}
