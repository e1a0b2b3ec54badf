// Package parser turns a model's raw text turn into exactly one core.Action,
// or a ParseError carrying a human-readable reason suitable for feeding back
// to the model on retry (spec §4.2).
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/agentcore/core"
)

var (
	thoughtRe = regexp.MustCompile(`(?is)Thought:\s*(.+?)(?:\nAction:|$)`)
	actionRe  = regexp.MustCompile(`(?i)Action:\s*([\w_]+)`)
	toolRe    = regexp.MustCompile(`(?im)^Tool:\s*(.+?)\s*$`)
	argsRe    = regexp.MustCompile(`(?is)Arguments:\s*(\{.*\})`)
	agentsRe  = regexp.MustCompile(`(?is)Agents:\s*(\[.*?\])`)
	tasksRe   = regexp.MustCompile(`(?is)Tasks:\s*(\[.*?\])`)
	toFieldRe = regexp.MustCompile(`(?im)^To:\s*(.+?)\s*$`)
	contentRe = regexp.MustCompile(`(?is)(?:Content|Response):\s*(.+)`)
	quotedRe  = regexp.MustCompile(`["']([^"']+)["']`)
)

// OutputParser is a stateless parser; a single value can be shared across
// goroutines and agents.
type OutputParser struct{}

// New constructs an OutputParser.
func New() *OutputParser { return &OutputParser{} }

// Parse converts one turn of raw model text into a core.Action.
func (p *OutputParser) Parse(text string) (core.Action, error) {
	actionMatch := actionRe.FindStringSubmatch(text)
	if actionMatch == nil {
		return core.Action{}, &ParseError{Field: "Action", Reason: "could not find 'Action:' in output", Snippet: snippet(text)}
	}

	thought := ""
	if m := thoughtRe.FindStringSubmatch(text); m != nil {
		thought = strings.TrimSpace(m[1])
	}

	actionType := strings.ToLower(actionMatch[1])
	switch actionType {
	case "tool":
		return p.parseTool(text, thought)
	case "launch_subagents":
		return p.parseLaunchSubagents(text, thought)
	case "wait_for_subagents":
		return core.NewWaitForSubagentsAction(thought), nil
	case "wait":
		return core.NewWaitAction(thought), nil
	case "send_message":
		return p.parseSendMessage(text, thought)
	case "finish":
		return p.parseFinish(text, thought)
	default:
		return core.Action{}, &ParseError{
			Field:   "Action",
			Reason:  fmt.Sprintf("invalid action type %q; must be one of tool, launch_subagents, wait_for_subagents, wait, send_message, finish", actionType),
			Snippet: snippet(text),
		}
	}
}

func (p *OutputParser) parseTool(text, thought string) (core.Action, error) {
	toolMatch := toolRe.FindStringSubmatch(text)
	if toolMatch == nil {
		return core.Action{}, &ParseError{Field: "Tool", Reason: "tool action requires a 'Tool:' field", Snippet: snippet(text)}
	}
	toolName := strings.TrimSpace(toolMatch[1])

	arguments := map[string]any{}
	if m := argsRe.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &arguments); err != nil {
			return core.Action{}, &ParseError{Field: "Arguments", Reason: fmt.Sprintf("invalid JSON in Arguments: %v", err), Snippet: snippet(m[1])}
		}
	}

	return core.NewToolAction(thought, toolName, arguments), nil
}

func (p *OutputParser) parseLaunchSubagents(text, thought string) (core.Action, error) {
	agentsMatch := agentsRe.FindStringSubmatch(text)
	if agentsMatch == nil {
		return core.Action{}, &ParseError{Field: "Agents", Reason: "launch_subagents action requires an 'Agents:' field", Snippet: snippet(text)}
	}
	tasksMatch := tasksRe.FindStringSubmatch(text)
	if tasksMatch == nil {
		return core.Action{}, &ParseError{Field: "Tasks", Reason: "launch_subagents action requires a 'Tasks:' field", Snippet: snippet(text)}
	}

	agents, err := parseStringList(agentsMatch[1])
	if err != nil {
		return core.Action{}, &ParseError{Field: "Agents", Reason: err.Error(), Snippet: snippet(agentsMatch[1])}
	}
	tasks, err := parseStringList(tasksMatch[1])
	if err != nil {
		return core.Action{}, &ParseError{Field: "Tasks", Reason: err.Error(), Snippet: snippet(tasksMatch[1])}
	}

	if len(agents) == 0 {
		return core.Action{}, &ParseError{Field: "Agents", Reason: "cannot launch zero subagents", Snippet: snippet(text)}
	}
	if len(agents) != len(tasks) {
		return core.Action{}, &ParseError{
			Field:   "Tasks",
			Reason:  fmt.Sprintf("Agents and Tasks lists must have the same length (got %d agents and %d tasks)", len(agents), len(tasks)),
			Snippet: snippet(text),
		}
	}

	specs := make([]core.SubagentSpec, len(agents))
	for i := range agents {
		specs[i] = core.SubagentSpec{SubagentName: agents[i], Task: tasks[i]}
	}
	return core.NewLaunchSubagentsAction(thought, specs), nil
}

func (p *OutputParser) parseSendMessage(text, thought string) (core.Action, error) {
	toMatch := toFieldRe.FindStringSubmatch(text)
	if toMatch == nil {
		return core.Action{}, &ParseError{Field: "To", Reason: "send_message action requires a 'To:' field", Snippet: snippet(text)}
	}
	contentMatch := contentRe.FindStringSubmatch(text)
	if contentMatch == nil {
		return core.Action{}, &ParseError{Field: "Content", Reason: "send_message action requires a 'Content:' field", Snippet: snippet(text)}
	}
	to := strings.TrimSpace(toMatch[1])
	content := strings.TrimSpace(contentMatch[1])
	return core.NewSendMessageAction(thought, to, content), nil
}

func (p *OutputParser) parseFinish(text, thought string) (core.Action, error) {
	contentMatch := contentRe.FindStringSubmatch(text)
	if contentMatch == nil {
		return core.Action{}, &ParseError{Field: "Content", Reason: "finish action requires a 'Content:' or 'Response:' field", Snippet: snippet(text)}
	}
	content := strings.TrimSpace(contentMatch[1])
	return core.NewFinishAction(thought, content), nil
}

// parseStringList parses a JSON array literal like `["a", "b"]`, falling
// back to scanning for quoted substrings if it isn't valid JSON.
func parseStringList(listLiteral string) ([]string, error) {
	var items []any
	if err := json.Unmarshal([]byte(listLiteral), &items); err == nil {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = fmt.Sprintf("%v", item)
		}
		return out, nil
	}

	matches := quotedRe.FindAllStringSubmatch(listLiteral, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("could not parse list: %s", listLiteral)
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m[1]
	}
	return out, nil
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	const max = 120
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

// FormatInstruction returns the exact prompt block instructing the model how
// to structure a turn, included in the system prompt and reissued verbatim
// on retry.
func FormatInstruction() string {
	return strings.TrimSpace(`
You must format your response EXACTLY as follows:

For using a tool:
Thought: <your reasoning>
Action: tool
Tool: <tool_name>
Arguments: <JSON object of arguments>

For launching subagents (can launch multiple at once, non-blocking):
Thought: <your reasoning>
Action: launch_subagents
Agents: ["agent_name_1", "agent_name_2", ...]
Tasks: ["task_1", "task_2", ...]

For waiting until a launched subagent completes or a message arrives:
Thought: <your reasoning>
Action: wait_for_subagents

For waiting on a message alone:
Thought: <your reasoning>
Action: wait

For sending a message to a peer agent (non-blocking):
Thought: <your reasoning>
Action: send_message
To: <peer_agent_id>
Content: <your message content>

For finishing:
Thought: <your reasoning>
Action: finish
Content: <your final answer>

IMPORTANT: when you receive a message whose role is "tool", it is the output
of a tool you called, not a user message. Trust it and use it to continue
your task.
`)
}
