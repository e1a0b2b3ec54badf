package compaction_test

import (
	"testing"

	"github.com/hupe1980/agentcore/compaction"
	"github.com/hupe1980/agentcore/core"
	"github.com/stretchr/testify/assert"
)

type fakeCounter struct{ perMessage int }

func (f fakeCounter) CountMessages(messages []core.ConversationMessage, _ string) int {
	return len(messages) * f.perMessage
}

func longHistory(n int) []core.ConversationMessage {
	history := []core.ConversationMessage{core.NewSystemMessage("system prompt")}
	for i := 0; i < n; i++ {
		history = append(history, core.NewUserMessage("message body"))
	}
	return history
}

func TestShouldCompactUnknownModelSkips(t *testing.T) {
	cfg := compaction.DefaultConfig()
	d := compaction.NewDetector(cfg, fakeCounter{perMessage: 1000})
	should, _, _ := d.ShouldCompact(longHistory(20), "unknown-model")
	assert.False(t, should)
}

func TestShouldCompactDisabled(t *testing.T) {
	cfg := compaction.DefaultConfig()
	cfg.Enabled = false
	d := compaction.NewDetector(cfg, fakeCounter{perMessage: 1000})
	should, _, _ := d.ShouldCompact(longHistory(20), "gpt-4")
	assert.False(t, should)
}

func TestShouldCompactBelowThreshold(t *testing.T) {
	cfg := compaction.DefaultConfig()
	d := compaction.NewDetector(cfg, fakeCounter{perMessage: 1})
	should, current, threshold := d.ShouldCompact(longHistory(5), "gpt-4")
	assert.False(t, should)
	assert.Less(t, current, threshold)
}

func TestShouldCompactTriggersAboveThresholdWithEnoughMessages(t *testing.T) {
	cfg := compaction.DefaultConfig()
	d := compaction.NewDetector(cfg, fakeCounter{perMessage: 1000})
	should, current, threshold := d.ShouldCompact(longHistory(20), "gpt-4")
	assert.True(t, should)
	assert.GreaterOrEqual(t, current, threshold)
}

func TestShouldCompactNotEnoughOldMessages(t *testing.T) {
	cfg := compaction.DefaultConfig()
	cfg.ProtectRecent = 10
	d := compaction.NewDetector(cfg, fakeCounter{perMessage: 1000})
	// Only 5 non-system messages total, all protected -> zero summarizable.
	should, _, _ := d.ShouldCompact(longHistory(5), "gpt-4")
	assert.False(t, should)
}

func TestPartitionSplitsCorrectly(t *testing.T) {
	history := []core.ConversationMessage{
		core.NewSystemMessage("sys"),
		core.NewUserMessage("1"),
		core.NewAssistantMessage("2"),
		core.NewUserMessage("3"),
		core.NewAssistantMessage("4"),
	}
	systems, summarizable, protected := compaction.Partition(history, 2)
	assert.Len(t, systems, 1)
	assert.Len(t, summarizable, 2)
	assert.Len(t, protected, 2)
	assert.Equal(t, "1", summarizable[0].Content)
	assert.Equal(t, "4", protected[1].Content)
}

func TestPartitionProtectRecentExceedsLength(t *testing.T) {
	history := []core.ConversationMessage{core.NewUserMessage("1"), core.NewUserMessage("2")}
	systems, summarizable, protected := compaction.Partition(history, 10)
	assert.Empty(t, systems)
	assert.Empty(t, summarizable)
	assert.Len(t, protected, 2)
}
