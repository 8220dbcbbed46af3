// ABOUTME: CLI command to delete a document's metadata record
// ABOUTME: Vectors stay in the index until the next rebuild
package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document's metadata record",
		Long: `Delete a document's metadata record by ID.

The document's vectors remain in the index until the next rebuild.
Use 'ctfrag list' to find document IDs.

Examples:
  ctfrag delete 3
  ctfrag delete 3 && ctfrag rebuild --yes`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("document ID must be a positive integer, got %q", args[0])
	}

	svc, err := openServices(false)
	if err != nil {
		return err
	}
	defer svc.close()

	deleted, err := svc.metadata.Delete(id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if !deleted {
		return fmt.Errorf("document %d not found", id)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted document %d (vectors remain until rebuild)\n", id)
	}

	return nil
}
