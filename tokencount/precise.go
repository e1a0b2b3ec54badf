package tokencount

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/hupe1980/agentcore/core"
)

// fallbackEncoding is used for any model name tiktoken-go doesn't recognize —
// cl100k_base backs gpt-4, gpt-3.5-turbo and text-embedding-ada-002, and is
// the closest available approximation for non-OpenAI models like Claude.
const fallbackEncoding = "cl100k_base"

// PreciseCounter counts tokens with a real BPE encoder (tiktoken-go),
// caching one *tiktoken.Tiktoken per model name it has seen.
type PreciseCounter struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

// NewPreciseCounter constructs a PreciseCounter. It never fails at
// construction time; encoding lookups are resolved lazily and fall back to
// cl100k_base on any error, mirroring TiktokenCounter._get_encoding. A
// lookup panics if cl100k_base itself cannot be loaded.
func NewPreciseCounter() *PreciseCounter {
	return &PreciseCounter{encodings: make(map[string]*tiktoken.Tiktoken)}
}

func (c *PreciseCounter) encodingFor(model string) *tiktoken.Tiktoken {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encodings[model]; ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil || enc == nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			// tiktoken-go loads the cl100k_base ranks from its cache or over
			// the network; if that fails there is no encoding left to use.
			panic("tokencount: cl100k_base encoding unavailable: " + err.Error())
		}
	}
	c.encodings[model] = enc
	return enc
}

// CountText encodes text with the gpt-4 encoding (cl100k_base), matching
// TiktokenCounter.count_text's use of a fixed general-purpose encoding.
func (c *PreciseCounter) CountText(text string) int {
	enc := c.encodingFor("gpt-4")
	return len(enc.Encode(text, nil, nil))
}

// CountMessages replays OpenAI's documented per-message/per-name token
// overhead table (see openai-cookbook's How_to_count_tokens_with_tiktoken).
func (c *PreciseCounter) CountMessages(messages []core.ConversationMessage, model string) int {
	if model == "" {
		model = "gpt-4"
	}
	enc := c.encodingFor(model)

	tokensPerMessage, tokensPerName := 4, -1
	if strings.HasPrefix(model, "gpt-4") {
		tokensPerMessage, tokensPerName = 3, 1
	}
	_ = tokensPerName // no "name" field on core.ConversationMessage today; kept for parity with the source table

	numTokens := 0
	for _, m := range messages {
		numTokens += tokensPerMessage
		numTokens += len(enc.Encode(string(m.Role), nil, nil))
		numTokens += len(enc.Encode(m.Content, nil, nil))
	}
	numTokens += 3 // every reply is primed with <|start|>assistant<|message|>
	return numTokens
}
