package policy

import "github.com/danjamk/toolgate/pkg/api"

// Kind discriminates the operation variants the gate understands.
type Kind int

const (
	KindShellCommand Kind = iota
	KindFileRead
	KindFileWrite
)

func (k Kind) String() string {
	switch k {
	case KindShellCommand:
		return "shell_command"
	case KindFileRead:
		return "file_read"
	case KindFileWrite:
		return "file_write"
	}
	return "unknown"
}

// Operation is one candidate action submitted for a safety decision.
// Values are constructed per invocation, evaluated once, and discarded.
type Operation struct {
	Kind    Kind
	Command string // KindShellCommand
	Path    string // KindFileRead, KindFileWrite
}

func ShellCommand(text string) Operation {
	return Operation{Kind: KindShellCommand, Command: text}
}

func FileRead(path string) Operation {
	return Operation{Kind: KindFileRead, Path: path}
}

func FileWrite(path string) Operation {
	return Operation{Kind: KindFileWrite, Path: path}
}

// Content returns the literal text the rule sets match against.
func (op Operation) Content() string {
	if op.Kind == KindShellCommand {
		return op.Command
	}
	return op.Path
}

// OperationFromHook maps a hook input record onto an Operation.
// It returns false for tools the gate has no opinion about, and for
// records missing the field their tool requires.
func OperationFromHook(in *api.HookInput) (Operation, bool) {
	switch {
	case in.ToolName == api.ToolBash:
		if in.ToolInput.Command == "" {
			return Operation{}, false
		}
		return ShellCommand(in.ToolInput.Command), true
	case in.ToolName == api.ToolRead:
		if in.ToolInput.FilePath == "" {
			return Operation{}, false
		}
		return FileRead(in.ToolInput.FilePath), true
	case api.IsWriteTool(in.ToolName):
		if in.ToolInput.FilePath == "" {
			return Operation{}, false
		}
		return FileWrite(in.ToolInput.FilePath), true
	}
	return Operation{}, false
}
