// Package openai adapts model.Client to the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcore/core"
	"github.com/openai/openai-go"
)

// toolResultPrefix marks a collapsed tool observation folded into a user
// turn. openai.ToolMessage requires a tool_call_id paired with a preceding
// assistant tool_calls entry, a pairing this text-parsed action loop never
// produces (actions come from parsing free-form assistant text, not the
// API's native function-calling), so tool observations are folded into a
// prefixed user message instead, mirroring the Anthropic adapter.
const toolResultPrefix = "[TOOL RESULT]\n"

// Options configures the OpenAI client adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Client wraps the OpenAI Chat Completions API behind model.Client. It owns
// one agent's conversation history exclusively; it is not safe to share a
// Client between agents.
type Client struct {
	client  *openai.Client
	opts    Options
	history []core.ConversationMessage
}

// New creates a Client using the official SDK client, reading credentials
// from the standard OPENAI_API_KEY environment variable.
func New(optFns ...func(o *Options)) *Client {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient wraps an already-constructed SDK client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Chat implements model.Client.
func (c *Client) Chat(ctx context.Context, prompt, systemPrompt string, role core.Role) (string, error) {
	c.history = append(c.history, core.ConversationMessage{Role: role, Content: prompt})

	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(systemPrompt, c.history),
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	text := resp.Choices[0].Message.Content
	c.history = append(c.history, core.NewAssistantMessage(text))
	return text, nil
}

// ResetHistory implements model.Client.
func (c *Client) ResetHistory() { c.history = nil }

// GetHistory implements model.Client.
func (c *Client) GetHistory() []core.ConversationMessage {
	out := make([]core.ConversationMessage, len(c.history))
	copy(out, c.history)
	return out
}

// SetHistory implements model.Client.
func (c *Client) SetHistory(history []core.ConversationMessage) {
	c.history = make([]core.ConversationMessage, len(history))
	copy(c.history, history)
}

// Name implements model.Client.
func (c *Client) Name() string { return c.opts.Model }

// buildMessages converts systemPrompt plus history into OpenAI chat
// messages, folding RoleTool observations into prefixed user turns.
func buildMessages(systemPrompt string, history []core.ConversationMessage) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	for _, m := range history {
		switch m.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		case core.RoleTool:
			messages = append(messages, openai.UserMessage(toolResultPrefix+m.Content))
		}
	}
	return messages
}
