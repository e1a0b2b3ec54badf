// Package compaction keeps an agent's rolling model context below a
// configured usable-token budget by summarizing old history in place
// (spec §4.3). It never panics and never returns an error from Compact:
// failure means "left the history untouched".
package compaction

import "time"

// Config holds every compaction knob (spec §4.3 defaults).
type Config struct {
	Enabled              bool
	Threshold            float64 // fraction of usable context that triggers compaction, (0,1]
	ProtectRecent        int     // number of most-recent non-system messages never summarized
	ReservedOutputTokens int     // tokens reserved for the model's own reply
	ContextLimits        map[string]int
	CounterStrategy      string // "simple" | "precise" | "auto"
	MaxRetries           int
}

// DefaultConfig returns the spec's defaults: enabled, 75% threshold, 2
// protected recent messages, ~4000 reserved output tokens, one retry.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		Threshold:            0.75,
		ProtectRecent:        2,
		ReservedOutputTokens: 4000,
		ContextLimits: map[string]int{
			"gpt-4":             8192,
			"gpt-4-turbo":       128000,
			"gpt-4o":            128000,
			"gpt-3.5-turbo":     16385,
			"claude-3-opus":     200000,
			"claude-3-sonnet":   200000,
			"claude-3-5-sonnet": 200000,
			"claude-3-haiku":    200000,
		},
		CounterStrategy: "simple",
		MaxRetries:      1,
	}
}

// UsableTokens returns limit(model) - reserved_output_tokens, or 0 if the
// model is unknown (the detector treats 0 as "skip").
func (c Config) UsableTokens(model string) int {
	limit, ok := c.ContextLimits[model]
	if !ok {
		return 0
	}
	usable := limit - c.ReservedOutputTokens
	if usable < 0 {
		return 0
	}
	return usable
}

// backoffSchedule is the exponential backoff (1s, 2s, ...) applied between
// validation retries, per spec §4.3.
func backoffSchedule(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}
