package core

// Role identifies the speaker of a ConversationMessage. Tool observations use
// RoleTool, never RoleUser — mixing the two confuses the model about who is
// speaking (spec §6, the tool-role injection contract).
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ConversationMessage is one turn of an agent's history, the unit the
// compaction engine partitions and the token counter measures.
type ConversationMessage struct {
	Role    Role
	Content string
}

// NewSystemMessage builds a system-role message.
func NewSystemMessage(content string) ConversationMessage {
	return ConversationMessage{Role: RoleSystem, Content: content}
}

// NewUserMessage builds a user-role message.
func NewUserMessage(content string) ConversationMessage {
	return ConversationMessage{Role: RoleUser, Content: content}
}

// NewAssistantMessage builds an assistant-role message.
func NewAssistantMessage(content string) ConversationMessage {
	return ConversationMessage{Role: RoleAssistant, Content: content}
}

// NewToolMessage builds a tool-role message carrying an observation.
func NewToolMessage(content string) ConversationMessage {
	return ConversationMessage{Role: RoleTool, Content: content}
}
