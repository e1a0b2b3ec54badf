// Package model defines the provider-agnostic interface the agent loop
// drives generation through, plus a mock implementation for tests.
package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcore/core"
)

// Client is the model client interface the agent loop is built against.
// Implementations hold their own conversation state; the loop never
// maintains a parallel copy of history, it drives everything through Chat,
// ResetHistory, GetHistory and SetHistory (the latter used by the
// compaction engine to commit a shortened history in place).
//
// Role distinguishes who is speaking on this turn: RoleUser for the
// initial task and ordinary follow-ups, RoleTool for tool/subagent/message
// observations fed back to the model, RoleSystem is not expected here (the
// system prompt is passed separately and applied once per provider call).
// Providers that cannot natively represent RoleTool as a distinct role
// MUST translate it within their adapter and document the loss (spec's
// role-tagged-history contract) rather than silently treating it as user
// input.
type Client interface {
	Chat(ctx context.Context, prompt, systemPrompt string, role core.Role) (string, error)
	ResetHistory()
	GetHistory() []core.ConversationMessage
	SetHistory(history []core.ConversationMessage)

	// Name identifies the underlying model, used as the key into
	// tokencount's precise-counter cache and compaction's context-limit table.
	Name() string
}

// MockClient is a canned-response Client for tests and examples. It
// maintains real conversation history like a production adapter would, so
// tests exercising compaction or multi-turn flows see realistic growth.
// Responses are looked up by the prompt text passed to Chat; a queue of
// scripted replies can additionally be enqueued for tests that step an
// agent through several iterations regardless of prompt content.
type MockClient struct {
	name      string
	responses map[string]string
	queue     []string
	calls     int
	history   []core.ConversationMessage
}

// NewMockClient constructs a MockClient reporting the given model name.
func NewMockClient(name string) *MockClient {
	return &MockClient{name: name, responses: make(map[string]string)}
}

// AddResponse registers a canned reply for a given prompt.
func (m *MockClient) AddResponse(prompt, response string) {
	m.responses[prompt] = response
}

// Enqueue appends a scripted reply returned in order, independent of input;
// once the queue is non-empty it takes priority over AddResponse lookups.
func (m *MockClient) Enqueue(response string) {
	m.queue = append(m.queue, response)
}

// Calls returns the number of times Chat has been invoked.
func (m *MockClient) Calls() int { return m.calls }

// Chat implements Client.
func (m *MockClient) Chat(ctx context.Context, prompt, systemPrompt string, role core.Role) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	m.calls++
	m.history = append(m.history, core.ConversationMessage{Role: role, Content: prompt})

	var reply string
	if len(m.queue) > 0 {
		reply = m.queue[0]
		m.queue = m.queue[1:]
	} else if resp, ok := m.responses[prompt]; ok {
		reply = resp
	} else {
		reply = fmt.Sprintf("Mock response to: %s", prompt)
	}

	m.history = append(m.history, core.NewAssistantMessage(reply))
	return reply, nil
}

// ResetHistory implements Client.
func (m *MockClient) ResetHistory() { m.history = nil }

// GetHistory implements Client.
func (m *MockClient) GetHistory() []core.ConversationMessage {
	out := make([]core.ConversationMessage, len(m.history))
	copy(out, m.history)
	return out
}

// SetHistory implements Client.
func (m *MockClient) SetHistory(history []core.ConversationMessage) {
	m.history = make([]core.ConversationMessage, len(history))
	copy(m.history, history)
}

// Name implements Client.
func (m *MockClient) Name() string { return m.name }
