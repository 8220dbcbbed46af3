// ABOUTME: CLI command to answer questions over the indexed documents
// ABOUTME: Runs the retrieve/rerank/generate pipeline and prints the answer
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryTopK    int
	querySources bool
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Answer a question using the indexed documents",
		Long: `Answer a question using retrieval-augmented generation.

The question is embedded, the closest chunks are retrieved from the
index, optionally reranked, and an answer is generated from them.

Examples:
  ctfrag query "how does a padding oracle attack work?"
  ctfrag query --top-k 10 "common SQLi filter bypasses"
  ctfrag query --format json "what is ROP?"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().IntVar(&queryTopK, "top-k", 0, "Number of chunks to retrieve (0 uses the configured default)")
	cmd.Flags().BoolVar(&querySources, "sources", true, "Show source chunk previews")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	svc, err := openServices(true)
	if err != nil {
		return err
	}
	defer svc.close()

	result := svc.pipeline.Answer(args[0], queryTopK, querySources)

	if outputFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		if result.Status != "success" {
			return fmt.Errorf("query failed: %s", result.Error)
		}
		return nil
	}

	if result.Status != "success" {
		return fmt.Errorf("query failed: %s", result.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Answer)

	if querySources && len(result.Sources) > 0 && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSources:\n")
		for i, src := range result.Sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s (%s, score %.3f)\n",
				i+1, src.FileName, src.Category, src.Score)
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "     %s\n", truncate(src.Text, 120))
			}
		}
	}

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d chunk(s) in %.2fs using %s\n",
			result.RetrievedChunks, result.ResponseTime, result.Model)
	}

	return nil
}
