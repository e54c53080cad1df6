package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danjamk/toolgate/pkg/api"
	"github.com/danjamk/toolgate/pkg/audit"
	"github.com/danjamk/toolgate/pkg/policy"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Evaluate a hook invocation read from stdin",
	Long: `Evaluate a hook invocation read from stdin.

Reads one JSON record ({"tool_name": ..., "tool_input": {...}}) from
stdin and writes a decision record ({"decision": "approve"|"block",
"reason": ...}) to stdout. No output means no opinion: the host falls
back to its default policy. The exit status is always zero; the decision
record, not the exit status, is authoritative.

Malformed input never fails the host pipeline: the gate stays silent and
reports the problem on stderr.`,
	Example: `  echo '{"tool_name":"Bash","tool_input":{"command":"rm -rf /"}}' | toolgate hook
  toolgate hook --policy strict --boundary < input.json`,
	Args: cobra.NoArgs,
	RunE: runHook,
}

func init() {
	hookCmd.Flags().String("policy", "", "Policy mode: strict or auto")
	hookCmd.Flags().Bool("boundary", false, "Also confine operations to the project boundary")
	hookCmd.Flags().Bool("no-audit", false, "Disable audit logging")
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		// A broken config file must not break the host pipeline.
		fmt.Fprintf(os.Stderr, "toolgate: %v\n", err)
		cfg = api.DefaultConfig()
	}

	logger := audit.NewLogger(cfg.Audit, os.Stderr)
	defer logger.Close()

	in, err := api.ParseHookInput(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolgate: %v\n", err)
		return nil
	}

	if in.EventName == api.EventUserPromptSubmit || (in.ToolName == "" && in.Prompt != "") {
		screenPrompt(in.Prompt, logger)
		return nil
	}

	op, ok := policy.OperationFromHook(in)
	if !ok {
		if in.ToolName == api.ToolBash || in.ToolName == api.ToolRead || api.IsWriteTool(in.ToolName) {
			fmt.Fprintln(os.Stderr, "toolgate: missing required tool input field")
		}
		return nil
	}

	gate, err := policy.NewGate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolgate: %v\n", err)
		return nil
	}

	decision := gate.Evaluate(op)

	if cfg.Boundary && decision.Verdict != policy.Block {
		if boundary, err := policy.DetectBoundary(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "toolgate: %v\n", err)
		} else if d := boundary.Check(op); d.Verdict == policy.Block {
			decision = d
		}
	}

	logger.Append(audit.NewRecord(
		op.Kind.String(), op.Content(), decision.Verdict.String(), decision.Reason, decision.Warnings,
	))
	for _, w := range decision.Warnings {
		fmt.Fprintf(os.Stderr, "toolgate: warning: %s\n", w)
	}

	return writeDecision(os.Stdout, decision)
}

// screenPrompt logs suspicious prompt patterns for review. Prompts are
// never blocked.
func screenPrompt(prompt string, logger *audit.Logger) {
	for _, reason := range policy.ScreenPrompt(prompt) {
		logger.Append(audit.NewRecord("prompt", truncate(prompt, 200), policy.Neutral.String(), reason, nil))
	}
}

func writeDecision(w io.Writer, d policy.Decision) error {
	switch d.Verdict {
	case policy.Block:
		return json.NewEncoder(w).Encode(api.HookOutput{Decision: api.DecisionBlock, Reason: d.Reason})
	case policy.Approve:
		return json.NewEncoder(w).Encode(api.HookOutput{Decision: api.DecisionApprove, Reason: d.Reason})
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
