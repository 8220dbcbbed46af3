// ABOUTME: CLI command to show recent query history
// ABOUTME: Reads the query log from the metadata store
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var recentLimit int

// NewRecentCmd creates the recent command
func NewRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recent queries",
		Long: `Show the most recent queries and their outcomes.

Examples:
  ctfrag recent
  ctfrag recent --limit 20 --format json`,
		RunE: runRecent,
	}

	cmd.Flags().IntVar(&recentLimit, "limit", 10, "Maximum number of queries to show")

	return cmd
}

func runRecent(cmd *cobra.Command, args []string) error {
	svc, err := openServices(false)
	if err != nil {
		return err
	}
	defer svc.close()

	entries, err := svc.metadata.RecentQueryLogs(recentLimit)
	if err != nil {
		return fmt.Errorf("reading query log: %w", err)
	}

	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No queries recorded\n")
		}
		return nil
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WHEN\tQUERY\tCHUNKS\tTIME\tSTATUS\n")
	fmt.Fprintf(w, "----\t-----\t------\t----\t------\n")
	for _, entry := range entries {
		status := "ok"
		if !entry.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%s\n",
			formatTime(entry.Timestamp),
			truncate(entry.QueryText, 50),
			entry.RetrievedChunks,
			entry.ResponseTime,
			status)
	}
	w.Flush()

	return nil
}
