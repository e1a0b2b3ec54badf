// Package anthropic adapts model.Client to the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agentcore/core"
)

// toolResultPrefix marks a collapsed tool observation folded into a user
// turn. The loop's actions are parsed from free-form text rather than the
// provider's native function-calling, so there is no tool_use id to pair a
// dedicated tool_result block against; folding into a prefixed user message
// keeps the transcript legible to the model without fabricating one. This
// is the translation the role-tagged-history contract requires providers
// that cannot natively represent a tool role to document.
const toolResultPrefix = "[TOOL RESULT]\n"

// Options configures the Anthropic client adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Client wraps the Anthropic Messages API behind model.Client. It owns one
// agent's conversation history exclusively; it is not safe to share a
// Client between agents.
type Client struct {
	client  *anthropic.Client
	opts    Options
	history []core.ConversationMessage
}

// New creates a Client using the official SDK client.
func New(optFns ...func(o *Options)) *Client {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	c := anthropic.NewClient(clientOpts...)
	return NewFromClient(&c, optFns...)
}

// NewFromClient wraps an already-constructed SDK client, useful for tests
// that inject a client pointed at a local HTTP fixture.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Chat implements model.Client.
func (c *Client) Chat(ctx context.Context, prompt, systemPrompt string, role core.Role) (string, error) {
	c.history = append(c.history, core.ConversationMessage{Role: role, Content: prompt})

	params := anthropic.MessageNewParams{
		Model:       c.opts.Model,
		Messages:    buildMessages(c.history),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
	}
	if system := buildSystem(systemPrompt, c.history); len(system) > 0 {
		params.System = system
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}

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
func (c *Client) Name() string { return string(c.opts.Model) }

// buildSystem combines the caller-supplied system prompt with any
// RoleSystem turns embedded in history into Anthropic's separate System field.
func buildSystem(systemPrompt string, history []core.ConversationMessage) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	if systemPrompt != "" {
		blocks = append(blocks, anthropic.TextBlockParam{Text: systemPrompt})
	}
	for _, m := range history {
		if m.Role == core.RoleSystem && m.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

// buildMessages converts history into Anthropic message params, folding
// RoleTool observations into prefixed user turns and dropping RoleSystem
// entries (extracted separately by buildSystem).
func buildMessages(history []core.ConversationMessage) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, m := range history {
		switch m.Role {
		case core.RoleSystem:
			continue
		case core.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case core.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case core.RoleTool:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(toolResultPrefix+m.Content)))
		}
	}
	return messages
}
