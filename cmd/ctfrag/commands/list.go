// ABOUTME: CLI command to list ingested documents
// ABOUTME: Shows document metadata as a table or JSON
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listCategory string
	listLimit    int
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ingested documents",
		Long: `List ingested documents with their metadata, newest first.

Examples:
  ctfrag list
  ctfrag list --category crypto
  ctfrag list --limit 10 --format json`,
		RunE: runList,
	}

	cmd.Flags().StringVar(&listCategory, "category", "", "Only show documents in this category")
	cmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of documents to show")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := openServices(false)
	if err != nil {
		return err
	}
	defer svc.close()

	docs, err := svc.metadata.List(listCategory, listLimit)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No documents found\n")
		}
		return nil
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tFILE\tCATEGORY\tCHUNKS\tTAGS\tINGESTED\n")
	fmt.Fprintf(w, "--\t----\t--------\t------\t----\t--------\n")
	for _, doc := range docs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			doc.ID,
			truncate(doc.FileName, 30),
			doc.Category,
			doc.ChunkCount,
			truncate(strings.Join(doc.Tags, ","), 25),
			formatTime(doc.IngestedAt))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d document(s)\n", len(docs))
	}

	return nil
}
