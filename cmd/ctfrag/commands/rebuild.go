// ABOUTME: CLI command to destructively rebuild the index
// ABOUTME: Clears vectors and metadata, then re-ingests the data directory
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildYes bool

// NewRebuildCmd creates the rebuild command
func NewRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the index from the data directory",
		Long: `Destructively rebuild the index.

All vectors and metadata are cleared, then every document in the
data directory is re-ingested. Custom categories, tags, and notes
are lost; rebuilt documents get the default category.

Examples:
  ctfrag rebuild --yes`,
		RunE: runRebuild,
	}

	cmd.Flags().BoolVar(&rebuildYes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func runRebuild(cmd *cobra.Command, args []string) error {
	if !rebuildYes {
		return fmt.Errorf("rebuild clears all vectors and metadata; re-run with --yes to confirm")
	}

	svc, err := openServices(true)
	if err != nil {
		return err
	}
	defer svc.close()

	summary, err := svc.ingest.Rebuild()
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Rebuilt index: %d document(s) ingested, %d skipped, %d failed\n",
			summary.Documents, summary.Skipped, summary.Failed)
	}

	return nil
}
