package parser_test

import (
	"testing"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolAction(t *testing.T) {
	p := parser.New()
	text := "Thought: I should check the weather\nAction: tool\nTool: get_weather\nArguments: {\"city\": \"Berlin\"}"

	a, err := p.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, core.ActionTool, a.Type)
	assert.Equal(t, "I should check the weather", a.Thought)
	assert.Equal(t, "get_weather", a.ToolName)
	assert.Equal(t, "Berlin", a.Arguments["city"])
}

func TestParseToolActionNoArguments(t *testing.T) {
	p := parser.New()
	text := "Thought: none needed\nAction: tool\nTool: ping"

	a, err := p.Parse(text)
	require.NoError(t, err)
	assert.Empty(t, a.Arguments)
}

func TestParseToolActionInvalidJSON(t *testing.T) {
	p := parser.New()
	text := "Thought: bad\nAction: tool\nTool: get_weather\nArguments: {not json}"

	_, err := p.Parse(text)
	require.Error(t, err)
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Arguments", pe.Field)
}

func TestParseLaunchSubagents(t *testing.T) {
	p := parser.New()
	text := `Thought: delegate work
Action: launch_subagents
Agents: ["researcher", "writer"]
Tasks: ["find facts", "draft summary"]`

	a, err := p.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, core.ActionLaunchSubagents, a.Type)
	require.Len(t, a.Specs, 2)
	assert.Equal(t, "researcher", a.Specs[0].SubagentName)
	assert.Equal(t, "find facts", a.Specs[0].Task)
	assert.Equal(t, "writer", a.Specs[1].SubagentName)
}

func TestParseLaunchSubagentsMismatchedLength(t *testing.T) {
	p := parser.New()
	text := `Action: launch_subagents
Agents: ["a", "b"]
Tasks: ["only one"]`

	_, err := p.Parse(text)
	require.Error(t, err)
}

func TestParseLaunchSubagentsZeroAgents(t *testing.T) {
	p := parser.New()
	text := `Action: launch_subagents
Agents: []
Tasks: []`

	_, err := p.Parse(text)
	require.Error(t, err)
}

func TestParseLaunchSubagentsFallbackQuoteScan(t *testing.T) {
	p := parser.New()
	text := `Action: launch_subagents
Agents: ['researcher', 'writer']
Tasks: ['find facts', 'draft summary']`

	a, err := p.Parse(text)
	require.NoError(t, err)
	assert.Len(t, a.Specs, 2)
}

func TestParseWaitForSubagents(t *testing.T) {
	p := parser.New()
	a, err := p.Parse("Thought: blocked on children\nAction: wait_for_subagents")
	require.NoError(t, err)
	assert.Equal(t, core.ActionWaitForSubagents, a.Type)
}

func TestParseWait(t *testing.T) {
	p := parser.New()
	a, err := p.Parse("Thought: nothing to do\nAction: wait")
	require.NoError(t, err)
	assert.Equal(t, core.ActionWait, a.Type)
}

func TestParseSendMessage(t *testing.T) {
	p := parser.New()
	text := "Thought: tell peer\nAction: send_message\nTo: worker#2\nContent: status update\nmultiline continues"

	a, err := p.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, core.ActionSendMessage, a.Type)
	assert.Equal(t, "worker#2", a.To)
	assert.Contains(t, a.Content, "status update")
}

func TestParseSendMessageMissingTo(t *testing.T) {
	p := parser.New()
	_, err := p.Parse("Action: send_message\nContent: hi")
	require.Error(t, err)
}

func TestParseFinishWithContent(t *testing.T) {
	p := parser.New()
	a, err := p.Parse("Thought: done\nAction: finish\nContent: the final answer")
	require.NoError(t, err)
	assert.Equal(t, core.ActionFinish, a.Type)
	assert.Equal(t, "the final answer", a.FinishContent)
}

func TestParseFinishWithResponseFallback(t *testing.T) {
	p := parser.New()
	a, err := p.Parse("Action: finish\nResponse: the final answer")
	require.NoError(t, err)
	assert.Equal(t, "the final answer", a.FinishContent)
}

func TestParseMissingActionField(t *testing.T) {
	p := parser.New()
	_, err := p.Parse("Thought: I have no action")
	require.Error(t, err)
}

func TestParseUnknownActionType(t *testing.T) {
	p := parser.New()
	_, err := p.Parse("Action: teleport")
	require.Error(t, err)
}

func TestParseCaseInsensitive(t *testing.T) {
	p := parser.New()
	a, err := p.Parse("thought: casing\naction: FINISH\ncontent: done")
	require.NoError(t, err)
	assert.Equal(t, core.ActionFinish, a.Type)
}

func TestFormatInstructionMentionsAllActionTypes(t *testing.T) {
	instr := parser.FormatInstruction()
	for _, kw := range []string{"tool", "launch_subagents", "wait_for_subagents", "wait", "send_message", "finish"} {
		assert.Contains(t, instr, kw)
	}
}
