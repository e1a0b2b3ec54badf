package agentloop

import (
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/tool"
)

// SubagentTemplate describes one kind of child a launch_subagents action can
// spawn (spec §5). ClientFactory must return a fresh, unshared model.Client
// per call: parents and children never share a client instance, since each
// Client owns its own conversation history.
type SubagentTemplate struct {
	SystemPrompt  string
	Tools         *tool.Registry
	MaxIterations int
	ClientFactory func() model.Client
}

// Catalog maps a subagent_name (as the model names it in an Agents: list) to
// the template used to construct it.
type Catalog map[string]SubagentTemplate
