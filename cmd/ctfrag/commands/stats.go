// ABOUTME: CLI command to show index and metadata statistics
// ABOUTME: Reports vector counts, document totals, and integrity status
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long: `Show vector index and metadata statistics.

Includes an integrity check that verifies the index and its
persisted registry agree.

Examples:
  ctfrag stats
  ctfrag stats --format json`,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, err := openServices(false)
	if err != nil {
		return err
	}
	defer svc.close()

	idxStats := svc.manager.Stats()
	aggregate, err := svc.metadata.Stats()
	if err != nil {
		return fmt.Errorf("reading metadata stats: %w", err)
	}
	integrityOK := svc.manager.ValidateIntegrity()

	if outputFormat == "json" {
		payload := map[string]interface{}{
			"initialized":     idxStats.Initialized,
			"vector_count":    idxStats.VectorCount,
			"dimension":       idxStats.Dimension,
			"integrity_ok":    integrityOK,
			"total_documents": aggregate.TotalDocuments,
			"total_chunks":    aggregate.TotalChunks,
			"total_queries":   aggregate.TotalQueries,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documents:  %d\n", aggregate.TotalDocuments)
	fmt.Fprintf(cmd.OutOrStdout(), "Chunks:     %d\n", aggregate.TotalChunks)
	fmt.Fprintf(cmd.OutOrStdout(), "Vectors:    %d (dim %d)\n", idxStats.VectorCount, idxStats.Dimension)
	fmt.Fprintf(cmd.OutOrStdout(), "Queries:    %d\n", aggregate.TotalQueries)
	if integrityOK {
		fmt.Fprintf(cmd.OutOrStdout(), "Integrity:  ok\n")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Integrity:  FAILED (consider 'ctfrag rebuild')\n")
	}

	return nil
}
