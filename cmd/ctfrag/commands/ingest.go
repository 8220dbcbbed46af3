// ABOUTME: CLI command to ingest documents into the knowledge base
// ABOUTME: Handles single files and directories with category/tag metadata
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nclsec/ctfrag/internal/ingest"
)

var (
	ingestCategory string
	ingestTags     []string
	ingestNotes    string
	ingestForce    bool
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <path>",
		Short: "Ingest a document or directory",
		Long: `Ingest a document into the knowledge base.

The file is split into chunks, each chunk is embedded, and the
vectors are added to the persistent index. Files already ingested
(same path or same content hash) are skipped unless --force is set.

If the path is a directory, every supported file in it is ingested
recursively.

Examples:
  ctfrag ingest writeup.md --category crypto --tags rsa,oracle
  ctfrag ingest ./docs --category pwn
  ctfrag ingest notes.txt --force`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestCategory, "category", "", "Category label (default: general)")
	cmd.Flags().StringSliceVar(&ingestTags, "tags", []string{}, "Tags (comma-separated)")
	cmd.Flags().StringVar(&ingestNotes, "notes", "", "Free-form notes about the document")
	cmd.Flags().BoolVar(&ingestForce, "force", false, "Re-ingest even if already indexed")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := openServices(true)
	if err != nil {
		return err
	}
	defer svc.close()

	opts := ingest.Options{
		Category: ingestCategory,
		Tags:     ingestTags,
		Notes:    ingestNotes,
		Force:    ingestForce,
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("inspecting path: %w", err)
	}

	if info.IsDir() {
		result, err := svc.ingest.IngestDirectory(args[0], opts)
		if err != nil {
			return fmt.Errorf("ingesting directory: %w", err)
		}

		if outputFormat == "json" {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return nil
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Ingested %d of %d file(s) (%d skipped, %d failed)\n",
				result.Successful, result.TotalFiles, result.Skipped, result.Failed)
			if verbose {
				for _, detail := range result.Details {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", detail.FilePath, detail.Status)
				}
			}
		}
		return nil
	}

	result := svc.ingest.IngestFile(args[0], opts)

	if outputFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	switch result.Status {
	case ingest.StatusSuccess:
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Ingested %s (%d chunks, category: %s)\n",
				result.FileName, result.ChunkCount, result.Category)
		}
	case ingest.StatusSkipped:
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s: %s\n", result.FilePath, result.Reason)
		}
	default:
		return fmt.Errorf("ingesting %s: %s", result.FilePath, result.Error)
	}

	return nil
}
