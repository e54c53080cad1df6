package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danjamk/toolgate/pkg/policy"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [set]",
	Short: "List the built-in rule sets",
	Long: `List the built-in rule sets.

Without an argument every set is printed. With an argument only that set
is printed (deny-command, allow-command, warn-command, deny-write,
warn-write, deny-read).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	sets := policy.DefaultRules()

	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(args) == 1 {
		if _, ok := sets[args[0]]; !ok {
			return fmt.Errorf("unknown rule set %q (have %v)", args[0], names)
		}
		names = args[:1]
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer w.Flush()
	for _, name := range names {
		for _, r := range sets[name] {
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, r.Pattern.String(), r.Message)
		}
	}
	return nil
}
