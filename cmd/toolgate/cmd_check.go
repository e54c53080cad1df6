package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danjamk/toolgate/internal/errx"
	"github.com/danjamk/toolgate/pkg/api"
	"github.com/danjamk/toolgate/pkg/policy"
)

var checkCmd = &cobra.Command{
	Use:   "check <bash|read|write> [--] <command or path>",
	Short: "Evaluate a single operation from the command line",
	Long: `Evaluate a single operation from the command line.

Useful for testing rules without wiring up the hook. Exit code is 1 when
the operation blocks, 0 otherwise.`,
	Example: `  toolgate check bash -- rm -rf /tmp/x
  toolgate check bash "git status"
  toolgate check write .env
  toolgate check read ~/.ssh/id_rsa`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("policy", "", "Policy mode: strict or auto")
	checkCmd.Flags().Bool("boundary", false, "Also confine the operation to the project boundary")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return ErrMissingArgument
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var op policy.Operation
	switch args[0] {
	case "bash":
		command := args[1]
		if len(args) > 2 {
			command = api.ShellQuoteArgs(args[1:])
		}
		op = policy.ShellCommand(command)
	case "read":
		op = policy.FileRead(args[1])
	case "write":
		op = policy.FileWrite(args[1])
	default:
		return errx.With(ErrUnknownOperation, ": %q (want bash, read, or write)", args[0])
	}

	gate, err := policy.NewGate(cfg)
	if err != nil {
		return err
	}

	decision := gate.Evaluate(op)

	if cfg.Boundary && decision.Verdict != policy.Block {
		boundary, err := policy.DetectBoundary(cfg)
		if err != nil {
			return err
		}
		if d := boundary.Check(op); d.Verdict == policy.Block {
			decision = d
		}
	}

	fmt.Printf("%s\t%s\n", decision.Verdict, op.Content())
	if decision.Reason != "" {
		fmt.Println(decision.Reason)
	}
	for _, w := range decision.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if decision.Verdict == policy.Block {
		return commandExit(1)
	}
	return nil
}
