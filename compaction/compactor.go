package compaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// summarySystemPrompt instructs the summarizing model call. It demands a
// substantially shorter, telegraphic, first-person-continuity summary that
// preserves identifiers and decisions but proposes no new plans.
const summarySystemPrompt = `You are a context compression assistant. Produce a BRIEF summary of the conversation history below.

Requirements:
- The summary MUST be substantially shorter than the input: aim for 20-30% of the original length.
- Use bullet points or short telegraphic sentences, not prose.
- Write in first person, as continuity of the same ongoing task.
- Do not propose new plans or next steps that weren't already decided.
- Preserve file paths, identifiers, and decisions verbatim.`

// Summarizer calls a model to produce a summary. Compactor re-uses the
// caller's model client but under a fresh, temporary history so compaction
// never pollutes the agent's own conversation.
type Summarizer func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Compactor executes the Summarize/Validate steps of spec §4.3.
type Compactor struct {
	cfg       Config
	counter   Counter
	summarize Summarizer
	logger    *logging.AgentLogger
	sleep     func(context.Context, time.Duration)
}

// NewCompactor builds a Compactor. logger may be nil (defaults to
// logging.New(nil), which writes JSON at info level to stdout).
func NewCompactor(cfg Config, counter Counter, summarize Summarizer, logger *logging.AgentLogger) *Compactor {
	if logger == nil {
		logger = logging.New(nil)
	}
	return &Compactor{
		cfg:       cfg,
		counter:   counter,
		summarize: summarize,
		logger:    logger,
		sleep:     ctxSleep,
	}
}

func ctxSleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Compact attempts to compact history for the given model, retrying
// validation failures with exponential backoff up to cfg.MaxRetries times.
// It never returns an error: a failed or skipped compaction returns the
// original history unchanged with committed=false, matching the source's
// "compaction is best-effort, never raises" contract.
func (c *Compactor) Compact(ctx context.Context, agentID string, history []core.ConversationMessage, model string) (result []core.ConversationMessage, committed bool) {
	if !c.cfg.Enabled {
		return history, false
	}

	systems, summarizable, protected := Partition(history, c.cfg.ProtectRecent)
	if len(summarizable) == 0 {
		return history, false
	}

	originalTokens := c.counter.CountMessages(history, model)

	attempt := 0
	for {
		summary, err := c.generateSummary(ctx, summarizable, model)
		if err != nil {
			c.logger.LogCompactionFailed(agentID, fmt.Sprintf("summary generation failed: %v", err))
		} else {
			candidate := buildCompacted(systems, summary, protected)
			candidateTokens := c.counter.CountMessages(candidate, model)
			if candidateTokens < originalTokens {
				c.logger.LogCompactionSucceeded(agentID, originalTokens, candidateTokens, len(history), len(candidate))
				return candidate, true
			}
			c.logger.LogCompactionFailed(agentID, "validation failed: compacted history was not smaller than the original")
		}

		if attempt >= c.cfg.MaxRetries {
			c.logger.LogCompactionFailed(agentID, "giving up after exhausting retries")
			return history, false
		}
		c.sleep(ctx, backoffSchedule(attempt))
		attempt++

		if ctx.Err() != nil {
			return history, false
		}
	}
}

func (c *Compactor) generateSummary(ctx context.Context, messages []core.ConversationMessage, model string) (string, error) {
	originalTokens := c.counter.CountMessages(messages, model)
	targetWords := originalTokens * 3 / 10
	if targetWords < 50 {
		targetWords = 50
	}

	prompt := fmt.Sprintf(
		"Summarize the following conversation in AT MOST %d words:\n\n%s\n\nIMPORTANT: your summary must be MUCH shorter than the original. Target length: %d words maximum.",
		targetWords, formatForSummary(messages), targetWords,
	)

	return c.summarize(ctx, summarySystemPrompt, prompt)
}

func formatForSummary(messages []core.ConversationMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(m.Role)), m.Content))
	}
	return strings.Join(lines, "\n\n")
}

// buildCompacted rebuilds history as systems + [assistant summary] + protected
// per spec §4.3.
func buildCompacted(systems []core.ConversationMessage, summary string, protected []core.ConversationMessage) []core.ConversationMessage {
	out := make([]core.ConversationMessage, 0, len(systems)+1+len(protected))
	out = append(out, systems...)
	out = append(out, core.NewAssistantMessage("[CONTEXT SUMMARY]\n"+summary))
	out = append(out, protected...)
	return out
}
