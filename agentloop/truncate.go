package agentloop

import (
	"fmt"
	"strings"
)

// OutputTruncator caps a tool observation before it enters the conversation
// (spec §4.6 tool-dispatch step 4, §6). Grounded on the source's
// OutputTruncator, minus its temp-file spillover: a core library shouldn't
// write to the filesystem behind a caller's back as a side effect of running
// a tool, so a truncated tail is simply dropped rather than stashed for later
// retrieval. Callers that need the full output should have their tool return
// it via ToolResult.Attachments instead.
type OutputTruncator struct {
	MaxLines int
	MaxBytes int
}

// DefaultOutputTruncator matches the source's defaults: 2000 lines, 50KB.
func DefaultOutputTruncator() OutputTruncator {
	return OutputTruncator{MaxLines: 2000, MaxBytes: 51200}
}

// Truncate caps output by line count first, then by byte size, appending a
// footer noting how much was cut. A zero-value OutputTruncator (both limits
// <= 0) passes output through unchanged.
func (t OutputTruncator) Truncate(output string) string {
	totalBytes := len(output)
	lines := strings.Split(output, "\n")
	totalLines := len(lines)

	truncated := false
	if t.MaxLines > 0 && totalLines > t.MaxLines {
		lines = lines[:t.MaxLines]
		output = strings.Join(lines, "\n")
		truncated = true
	}
	if t.MaxBytes > 0 && len(output) > t.MaxBytes {
		output = output[:t.MaxBytes]
		lines = strings.Split(output, "\n")
		truncated = true
	}
	if !truncated {
		return output
	}
	return fmt.Sprintf("%s\n\n[OUTPUT TRUNCATED: %d lines / %d bytes total, showing first %d lines / %d bytes]",
		output, totalLines, totalBytes, len(lines), len(output))
}
