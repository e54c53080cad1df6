package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/danjamk/toolgate/pkg/audit"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent gate decisions",
	Long: `Show recent gate decisions from the history database, newest
first.`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

var logPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history records older than the retention window",
	Args:  cobra.NoArgs,
	RunE:  runLogPrune,
}

func init() {
	logCmd.Flags().Int("limit", 20, "Maximum number of records to show")
	logPruneCmd.Flags().Int("keep-days", 30, "Retention window in days")
	logCmd.AddCommand(logPruneCmd)
	rootCmd.AddCommand(logCmd)
}

func openHistory(cmd *cobra.Command) (*audit.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Audit == nil || cfg.Audit.Disabled || cfg.Audit.HistoryPath == "" {
		return nil, ErrHistoryDisabled
	}
	return audit.OpenStore(cfg.Audit.HistoryPath)
}

func runLog(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Recent(limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer w.Flush()
	for _, rec := range records {
		reason := rec.Reason
		if len(rec.Warnings) > 0 {
			reason = strings.TrimSpace(reason + " [" + strings.Join(rec.Warnings, "; ") + "]")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Local().Format(time.DateTime), rec.Verdict, rec.Kind, rec.Content, reason)
	}
	return nil
}

func runLogPrune(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	days, _ := cmd.Flags().GetInt("keep-days")
	pruned, err := store.Prune(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d records\n", pruned)
	return nil
}
