package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "toolgate",
	Short: "Safety gate for AI assistant tool execution",
	Long: `toolgate sits in front of an AI coding assistant's tool-execution
pipeline. Given a shell command or a file read/write about to run, it
answers approve, block, or nothing at all (defer to the default policy),
based on ordered pattern rules over the operation's literal content.

Wire it up as a PreToolUse hook in the assistant's settings:

  {
    "hooks": {
      "PreToolUse": [
        {
          "matcher": "Bash|Read|Write|Edit|MultiEdit",
          "hooks": [{ "type": "command", "command": "toolgate hook" }]
        }
      ]
    }
  }`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ~/.config/toolgate/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
