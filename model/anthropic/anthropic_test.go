package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/agentcore/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessagesSkipsSystemAndCollapsesTool(t *testing.T) {
	history := []core.ConversationMessage{
		core.NewSystemMessage("you are an agent"),
		core.NewUserMessage("do the task"),
		core.NewAssistantMessage("Thought: ...\nAction: tool"),
		core.NewToolMessage("tool output here"),
	}

	messages := buildMessages(history)
	assert.Len(t, messages, 3, "system message dropped, tool folded into a user turn")
}

func TestBuildSystemCombinesPromptAndEmbeddedSystemMessages(t *testing.T) {
	history := []core.ConversationMessage{
		core.NewSystemMessage("embedded system directive"),
		core.NewUserMessage("hi"),
	}

	blocks := buildSystem("top level prompt", history)
	assert.Len(t, blocks, 2)
	assert.Equal(t, "top level prompt", blocks[0].Text)
	assert.Equal(t, "embedded system directive", blocks[1].Text)
}

func TestBuildSystemEmptyWhenNoSystemContent(t *testing.T) {
	history := []core.ConversationMessage{core.NewUserMessage("hi")}
	assert.Empty(t, buildSystem("", history))
}

func TestClientName(t *testing.T) {
	c := NewFromClient(nil, func(o *Options) {
		o.Model = anthropic.ModelClaude_3_Haiku_20240307
	})
	assert.Equal(t, string(anthropic.ModelClaude_3_Haiku_20240307), c.Name())
}

func TestClientHistoryRoundTrip(t *testing.T) {
	c := NewFromClient(nil)
	c.SetHistory([]core.ConversationMessage{core.NewUserMessage("seed")})
	assert.Equal(t, []core.ConversationMessage{core.NewUserMessage("seed")}, c.GetHistory())

	c.ResetHistory()
	assert.Empty(t, c.GetHistory())
}
