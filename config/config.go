// Package config collects the runtime knobs spec §6 lists into one place a
// host application constructs once and threads into an orchestrator, bus,
// and every agent loop it builds, the way the examples wire flags and env
// vars into agentmesh.Options and agent.ModelAgentOptions.
package config

import (
	"os"
	"time"

	"github.com/hupe1980/agentcore/compaction"
)

// Config holds every knob spec §6 names. Zero-value fields are filled in by
// Default; construct with Default and functional options rather than a bare
// literal so future additions don't silently zero out.
type Config struct {
	// MaxIterations bounds an agent's turn cycle before it is force-finished.
	MaxIterations int
	// ParseMaxRetries bounds re-prompting on malformed model output.
	ParseMaxRetries int
	// ToolTimeout bounds a single tool call.
	ToolTimeout time.Duration
	// MailboxCapacity bounds each agent's inbound message queue.
	MailboxCapacity int
	// MailboxDeliverTimeout bounds how long a sender blocks against a full
	// mailbox before backpressure surfaces as an error.
	MailboxDeliverTimeout time.Duration
	// ShutdownGrace bounds how long Orchestrator.Shutdown waits for
	// cancelled tasks to observe their context before returning.
	ShutdownGrace time.Duration
	// Compaction configures the context-compaction engine.
	Compaction compaction.Config

	// OpenAIAPIKey and AnthropicAPIKey are read from the environment by
	// FromEnv; a host application not using one of the two providers can
	// leave the corresponding field empty.
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// Default returns spec §6's defaults.
func Default() Config {
	return Config{
		MaxIterations:         15,
		ParseMaxRetries:       3,
		ToolTimeout:           30 * time.Second,
		MailboxCapacity:       100,
		MailboxDeliverTimeout: 2 * time.Second,
		ShutdownGrace:         5 * time.Second,
		Compaction:            compaction.DefaultConfig(),
	}
}

// New builds a Config from Default plus any functional options.
func New(optFns ...func(*Config)) Config {
	cfg := Default()
	for _, fn := range optFns {
		fn(&cfg)
	}
	return cfg
}

// FromEnv overlays OPENAI_API_KEY and ANTHROPIC_API_KEY from the process
// environment onto cfg, leaving fields already set (e.g. by a prior
// functional option) untouched if the corresponding variable is unset.
func FromEnv(cfg Config) Config {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIAPIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.AnthropicAPIKey = key
	}
	return cfg
}
