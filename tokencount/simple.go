package tokencount

import "github.com/hupe1980/agentcore/core"

// perMessageOverhead approximates the formatting cost of wrapping a role and
// content pair in a provider's wire format ({"role": "...", "content": "..."}).
const perMessageOverhead = 20

// SimpleCounter is the chars/4 heuristic: fast, model-agnostic, roughly 25%
// error margin on English text. It is the default counter and never fails.
type SimpleCounter struct{}

// NewSimpleCounter constructs a SimpleCounter.
func NewSimpleCounter() *SimpleCounter { return &SimpleCounter{} }

// CountText estimates tokens as len(text)/4.
func (SimpleCounter) CountText(text string) int {
	return len(text) / 4
}

// CountMessages sums role+content length plus a fixed per-message overhead,
// then converts chars to tokens at a 4:1 ratio.
func (SimpleCounter) CountMessages(messages []core.ConversationMessage, _ string) int {
	totalChars := 0
	for _, m := range messages {
		totalChars += len(string(m.Role))
		totalChars += len(m.Content)
		totalChars += perMessageOverhead
	}
	return totalChars / 4
}
