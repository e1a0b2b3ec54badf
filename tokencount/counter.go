// Package tokencount estimates how many tokens a piece of text or a
// conversation history will consume, backing the compaction engine's
// threshold checks (spec §4.1).
package tokencount

import "github.com/hupe1980/agentcore/core"

// Counter measures token usage. Implementations must be safe for concurrent
// use by multiple agent loops sharing one counter instance.
type Counter interface {
	// CountText estimates the token count of a single string.
	CountText(text string) int
	// CountMessages estimates the token count of a full conversation,
	// including per-message formatting overhead. model selects an
	// encoding/overhead table when the implementation is model-aware;
	// implementations that aren't (SimpleCounter) ignore it.
	CountMessages(messages []core.ConversationMessage, model string) int
}
