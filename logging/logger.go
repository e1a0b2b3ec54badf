// Package logging provides a tiny abstraction over slog so the orchestration
// core can depend on a minimal interface (Logger) while callers plug in any
// structured logger they like. It also offers a richer AgentLogger with
// contextual helpers (agent id, component) and domain-specific logging
// helpers for the lifecycle events the orchestrator and loop emit.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Level is a small user-facing enum decoupled from slog.Level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the human-readable name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal logging interface the orchestration core depends on.
// Any structured logger can be adapted to it; absence of a configured logger
// is never an error — callers fall back to NoOpLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards every message. The orchestrator, bus, and agent loop
// do not use it: given no logger, they fall back to New(nil).
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}

// SlogAdapter wraps *slog.Logger to implement Logger.
type SlogAdapter struct{ *slog.Logger }

func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.Logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.Logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter wraps an existing *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger { return &SlogAdapter{Logger: logger} }

// NewDefaultSlogLogger builds a Logger from slog.Default().
func NewDefaultSlogLogger() Logger { return NewSlogAdapter(slog.Default()) }

// Config configures construction of an AgentLogger.
type Config struct {
	Level     Level
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns a baseline JSON info-level configuration.
func DefaultConfig() *Config {
	return &Config{Level: LevelInfo, Format: "json", Output: os.Stdout, AddSource: false}
}

// AgentLogger wraps *slog.Logger adding cheap With* cloning and
// orchestration-domain convenience methods (agent lifecycle, message
// delivery, compaction outcomes).
type AgentLogger struct {
	logger    *slog.Logger
	level     Level
	component string
	agentID   string
	context   map[string]any
}

// New builds an AgentLogger from a Config (or DefaultConfig if nil).
func New(cfg *Config) *AgentLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &AgentLogger{logger: slog.New(handler), level: cfg.Level, context: map[string]any{}}
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *AgentLogger) clone() *AgentLogger {
	nl := *l
	nl.context = make(map[string]any, len(l.context))
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithAgent returns a logger tagging every subsequent entry with agentID.
func (l *AgentLogger) WithAgent(agentID string) *AgentLogger {
	nl := l.clone()
	nl.agentID = agentID
	return nl
}

// WithComponent returns a logger tagging entries with a component name
// ("orchestrator", "bus", "loop", "compaction", ...).
func (l *AgentLogger) WithComponent(component string) *AgentLogger {
	nl := l.clone()
	nl.component = component
	return nl
}

func (l *AgentLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+2)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.agentID != "" {
		attrs = append(attrs, slog.String("agent_id", l.agentID))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *AgentLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	attrs := l.buildAttrs()
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func (l *AgentLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, l.level <= LevelDebug, msg, args...) }
func (l *AgentLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, l.level <= LevelInfo, msg, args...) }
func (l *AgentLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, l.level <= LevelWarn, msg, args...) }
func (l *AgentLogger) Error(msg string, args ...any) { l.log(slog.LevelError, l.level <= LevelError, msg, args...) }

// LogAgentStarted records the transition Idle -> Running.
func (l *AgentLogger) LogAgentStarted(agentID, name string) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "agent_started",
		slog.String("agent_id", agentID), slog.String("name", name))
}

// LogAgentSuspended records the transition Running -> Suspended.
func (l *AgentLogger) LogAgentSuspended(agentID, reason string) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "agent_suspended",
		slog.String("agent_id", agentID), slog.String("reason", reason))
}

// LogAgentResumed records the transition Suspended -> Running.
func (l *AgentLogger) LogAgentResumed(agentID string, messageCount int) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "agent_resumed",
		slog.String("agent_id", agentID), slog.Int("message_count", messageCount))
}

// LogAgentCompleted records a successful terminal transition.
func (l *AgentLogger) LogAgentCompleted(agentID string, iterations int, dur time.Duration) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "agent_completed",
		slog.String("agent_id", agentID), slog.Int("iterations", iterations), slog.Duration("duration", dur))
}

// LogAgentFailed records a Failed terminal transition.
func (l *AgentLogger) LogAgentFailed(agentID, reason string) {
	l.logger.LogAttrs(context.Background(), slog.LevelError, "agent_failed",
		slog.String("agent_id", agentID), slog.String("reason", reason))
}

// LogMessageDelivered records a mailbox delivery.
func (l *AgentLogger) LogMessageDelivered(from, to, kind string) {
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "message_delivered",
		slog.String("from", from), slog.String("to", to), slog.String("kind", kind))
}

// LogCompactionTriggered records that compaction was invoked.
func (l *AgentLogger) LogCompactionTriggered(agentID string, currentTokens, thresholdTokens int) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "compaction_triggered",
		slog.String("agent_id", agentID), slog.Int("current_tokens", currentTokens), slog.Int("threshold_tokens", thresholdTokens))
}

// LogCompactionSucceeded records a committed compaction.
func (l *AgentLogger) LogCompactionSucceeded(agentID string, beforeTokens, afterTokens, beforeMessages, afterMessages int) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "compaction_succeeded",
		slog.String("agent_id", agentID),
		slog.Int("before_tokens", beforeTokens), slog.Int("after_tokens", afterTokens),
		slog.Int("before_messages", beforeMessages), slog.Int("after_messages", afterMessages))
}

// LogCompactionFailed records a best-effort compaction failure (never fatal).
func (l *AgentLogger) LogCompactionFailed(agentID, reason string) {
	l.logger.LogAttrs(context.Background(), slog.LevelWarn, "compaction_failed",
		slog.String("agent_id", agentID), slog.String("reason", reason))
}

// NewSlogLogger is a small convenience constructor mirroring New but taking
// primitive arguments, for callers that don't want to build a Config.
func NewSlogLogger(level Level, format string, addSource bool) *AgentLogger {
	cfg := DefaultConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return New(cfg)
}
