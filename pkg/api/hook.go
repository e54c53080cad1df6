package api

import (
	"encoding/json"
	"io"
)

// Hook event names as delivered by the host runtime.
const (
	EventPreToolUse       = "PreToolUse"
	EventUserPromptSubmit = "UserPromptSubmit"
)

// Tool names in the host's closed tool set.
const (
	ToolBash         = "Bash"
	ToolRead         = "Read"
	ToolWrite        = "Write"
	ToolEdit         = "Edit"
	ToolMultiEdit    = "MultiEdit"
	ToolNotebookEdit = "NotebookEdit"
)

// Decision values emitted back to the host.
const (
	DecisionApprove = "approve"
	DecisionBlock   = "block"
)

// ToolInput carries the tool-specific parameters of a hook invocation.
// Only the fields relevant to the named tool are populated.
type ToolInput struct {
	Command  string `json:"command,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	Content  string `json:"content,omitempty"`
}

// HookInput is the record the host runtime writes to the gate's stdin.
type HookInput struct {
	SessionID string    `json:"session_id,omitempty"`
	EventName string    `json:"hook_event_name,omitempty"`
	ToolName  string    `json:"tool_name,omitempty"`
	ToolInput ToolInput `json:"tool_input,omitempty"`
	Prompt    string    `json:"prompt,omitempty"`
}

// HookOutput is the decision record written to stdout. Absence of any
// output signals "defer to default policy"; the record, not the exit
// status, is authoritative.
type HookOutput struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// ParseHookInput decodes a hook input record from r.
func ParseHookInput(r io.Reader) (*HookInput, error) {
	var in HookInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, ErrDecodeHookInput
	}
	return &in, nil
}

// IsWriteTool reports whether the named tool creates or edits files.
// The write/edit/multi-edit variants share identical gate semantics.
func IsWriteTool(name string) bool {
	switch name {
	case ToolWrite, ToolEdit, ToolMultiEdit, ToolNotebookEdit:
		return true
	}
	return false
}
