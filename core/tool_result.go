package core

// ToolResult is what a Tool.Call returns on success. Error is populated
// instead of Output when the tool body failed or a permission request was
// denied; the loop feeds either back into the conversation as an observation.
type ToolResult struct {
	Title       string
	Output      string
	Metadata    map[string]any
	Attachments []string
	Error       string
}

// Failed reports whether the result represents a tool-level error rather
// than a successful observation.
func (r ToolResult) Failed() bool { return r.Error != "" }

// PermissionRequest is presented to a PermissionHandler before a tool with
// side effects executes (spec §4.6 item 2).
type PermissionRequest struct {
	Tool        string
	Description string
	Details     map[string]any
}

// PermissionDenied is returned by a Tool.Call when its PermissionHandler
// refuses the request; the loop treats it like any other recoverable tool
// error and feeds it back as an observation.
type PermissionDenied struct {
	Tool   string
	Reason string
}

func (e *PermissionDenied) Error() string {
	if e.Reason != "" {
		return "permission denied for tool " + e.Tool + ": " + e.Reason
	}
	return "permission denied for tool " + e.Tool
}
