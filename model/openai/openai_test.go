package openai

import (
	"testing"

	"github.com/hupe1980/agentcore/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessagesIncludesSystemPromptAndFoldsTool(t *testing.T) {
	history := []core.ConversationMessage{
		core.NewUserMessage("do the task"),
		core.NewAssistantMessage("Thought: ...\nAction: tool"),
		core.NewToolMessage("tool output here"),
	}

	messages := buildMessages("top level system prompt", history)
	assert.Len(t, messages, 4, "system prompt prepended, tool folded into a user turn")
}

func TestBuildMessagesNoSystemPromptOmitsLeadingSystemMessage(t *testing.T) {
	history := []core.ConversationMessage{core.NewUserMessage("hi")}
	messages := buildMessages("", history)
	assert.Len(t, messages, 1)
}

func TestClientName(t *testing.T) {
	c := NewFromClient(nil, func(o *Options) {
		o.Model = "gpt-4o"
	})
	assert.Equal(t, "gpt-4o", c.Name())
}

func TestClientHistoryRoundTrip(t *testing.T) {
	c := NewFromClient(nil)
	c.SetHistory([]core.ConversationMessage{core.NewUserMessage("seed")})
	assert.Equal(t, []core.ConversationMessage{core.NewUserMessage("seed")}, c.GetHistory())

	c.ResetHistory()
	assert.Empty(t, c.GetHistory())
}
