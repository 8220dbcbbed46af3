// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines verbose/quiet/format flags shared by all subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctfrag",
		Short: "Document QA over your CTF notes and writeups",
		Long: `ctfrag indexes your documents into a local vector store and answers
questions over them with retrieval-augmented generation.

Documents are chunked, embedded, and persisted to disk together with
a SQLite metadata database. Queries retrieve the closest chunks,
optionally rerank them, and generate an answer with source previews.

Examples:
  ctfrag ingest writeup.md --category crypto --tags rsa,padding
  ctfrag query "how do I exploit PKCS#7 padding oracles?"
  ctfrag list --category crypto
  ctfrag stats`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, or table")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewRecentCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewRebuildCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
