package compaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentcore/compaction"
	"github.com/hupe1980/agentcore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyForCompaction() []core.ConversationMessage {
	return []core.ConversationMessage{
		core.NewSystemMessage("you are a helpful agent"),
		core.NewUserMessage("first request, quite a bit of detail here to summarize"),
		core.NewAssistantMessage("first reply, also fairly long with lots of detail"),
		core.NewUserMessage("second request with more detail to pad it out"),
		core.NewAssistantMessage("second reply"),
		core.NewUserMessage("most recent request"),
		core.NewAssistantMessage("most recent reply"),
	}
}

func TestCompactSucceeds(t *testing.T) {
	cfg := compaction.DefaultConfig()
	cfg.ProtectRecent = 2
	summarize := func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return "short summary", nil
	}
	c := compaction.NewCompactor(cfg, fakeCounter{perMessage: 100}, summarize, nil)

	result, committed := c.Compact(context.Background(), "agent#1", historyForCompaction(), "gpt-4")
	require.True(t, committed)
	assert.Less(t, len(result), len(historyForCompaction()))
	assert.Equal(t, core.RoleSystem, result[0].Role)
	assert.Contains(t, result[1].Content, "[CONTEXT SUMMARY]")
}

func TestCompactDisabledIsNoop(t *testing.T) {
	cfg := compaction.DefaultConfig()
	cfg.Enabled = false
	c := compaction.NewCompactor(cfg, fakeCounter{perMessage: 100}, nil, nil)

	history := historyForCompaction()
	result, committed := c.Compact(context.Background(), "agent#1", history, "gpt-4")
	assert.False(t, committed)
	assert.Equal(t, history, result)
}

func TestCompactShortHistoryIsNoop(t *testing.T) {
	cfg := compaction.DefaultConfig()
	cfg.ProtectRecent = 10
	c := compaction.NewCompactor(cfg, fakeCounter{perMessage: 100}, nil, nil)

	history := historyForCompaction()
	result, committed := c.Compact(context.Background(), "agent#1", history, "gpt-4")
	assert.False(t, committed)
	assert.Equal(t, history, result)
}

func TestCompactValidationFailureLeavesHistoryUnchanged(t *testing.T) {
	cfg := compaction.DefaultConfig()
	cfg.MaxRetries = 0
	summarize := func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return "a summary that is somehow not actually shorter at all in this fake counter", nil
	}
	// A counter that charges a flat cost regardless of message count so the
	// compacted candidate (fewer, but not "cheaper" per this counter) never validates.
	c := compaction.NewCompactor(cfg, constCounter{tokens: 1000}, summarize, nil)

	history := historyForCompaction()
	result, committed := c.Compact(context.Background(), "agent#1", history, "gpt-4")
	assert.False(t, committed)
	assert.Equal(t, history, result)
}

func TestCompactSummarizerErrorNeverPanics(t *testing.T) {
	cfg := compaction.DefaultConfig()
	cfg.MaxRetries = 0
	summarize := func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return "", errors.New("model unavailable")
	}
	c := compaction.NewCompactor(cfg, fakeCounter{perMessage: 100}, summarize, nil)

	history := historyForCompaction()
	assert.NotPanics(t, func() {
		result, committed := c.Compact(context.Background(), "agent#1", history, "gpt-4")
		assert.False(t, committed)
		assert.Equal(t, history, result)
	})
}

type constCounter struct{ tokens int }

func (c constCounter) CountMessages(_ []core.ConversationMessage, _ string) int { return c.tokens }
