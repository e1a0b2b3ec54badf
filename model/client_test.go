package model_test

import (
	"context"
	"testing"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientAddResponseKeysOnPrompt(t *testing.T) {
	c := model.NewMockClient("test-model")
	c.AddResponse("hello", "Thought: hi\nAction: finish\nResponse: done")

	reply, err := c.Chat(context.Background(), "hello", "sys", core.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Thought: hi\nAction: finish\nResponse: done", reply)
	assert.Equal(t, 1, c.Calls())
}

func TestMockClientDefaultResponse(t *testing.T) {
	c := model.NewMockClient("test-model")
	reply, err := c.Chat(context.Background(), "unmapped", "", core.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unmapped", reply)
}

func TestMockClientEnqueueTakesPriority(t *testing.T) {
	c := model.NewMockClient("test-model")
	c.AddResponse("hello", "canned")
	c.Enqueue("first")
	c.Enqueue("second")

	first, err := c.Chat(context.Background(), "hello", "", core.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "first", first)

	second, err := c.Chat(context.Background(), "hello", "", core.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "second", second)

	third, err := c.Chat(context.Background(), "hello", "", core.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "canned", third)
}

func TestMockClientTracksHistory(t *testing.T) {
	c := model.NewMockClient("test-model")
	_, err := c.Chat(context.Background(), "do the task", "", core.RoleUser)
	require.NoError(t, err)
	_, err = c.Chat(context.Background(), "tool output", "", core.RoleTool)
	require.NoError(t, err)

	history := c.GetHistory()
	require.Len(t, history, 4)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
	assert.Equal(t, core.RoleTool, history[2].Role)
	assert.Equal(t, core.RoleAssistant, history[3].Role)
}

func TestMockClientSetHistoryReplacesState(t *testing.T) {
	c := model.NewMockClient("test-model")
	_, err := c.Chat(context.Background(), "one", "", core.RoleUser)
	require.NoError(t, err)

	c.SetHistory([]core.ConversationMessage{core.NewSystemMessage("fresh start")})
	assert.Equal(t, []core.ConversationMessage{core.NewSystemMessage("fresh start")}, c.GetHistory())
}

func TestMockClientResetHistory(t *testing.T) {
	c := model.NewMockClient("test-model")
	_, err := c.Chat(context.Background(), "one", "", core.RoleUser)
	require.NoError(t, err)

	c.ResetHistory()
	assert.Empty(t, c.GetHistory())
}

func TestMockClientRespectsContextCancellation(t *testing.T) {
	c := model.NewMockClient("test-model")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Chat(ctx, "hi", "", core.RoleUser)
	require.Error(t, err)
}

func TestMockClientName(t *testing.T) {
	c := model.NewMockClient("test-model")
	assert.Equal(t, "test-model", c.Name())
}
