// Package cli provides the cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archivist-labs/docqa/internal/core/ports/driven"
	"github.com/archivist-labs/docqa/internal/logger"
	"github.com/archivist-labs/docqa/internal/policy"
)

var (
	flagDebug      bool
	flagPolicyPath string
	flagDataDir    string

	// pol is loaded once per invocation in the persistent pre-run.
	pol policy.Policy

	// newGenerator and newEmbedder are wired by main; overridable in
	// tests.
	newGenerator func() (driven.Generator, error)
	newEmbedder  func() (driven.EmbeddingService, error)
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Citation-grounded question answering over your documents",
	Long: `docqa ingests parsed document elements, assembles them into
retrieval chunks, and answers questions strictly from the ingested
material, with verbatim quotes and per-source citations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(flagDebug)

		var err error
		pol, err = policy.Load(flagPolicyPath)
		if err != nil {
			return fmt.Errorf("loading policy: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable verbose diagnostics on stderr")
	rootCmd.PersistentFlags().StringVar(&flagPolicyPath, "policy", "docqa.toml", "path to the policy document")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.docqa/data)")
}

// SetCapabilities wires the external capability constructors. Called
// by main before Execute.
func SetCapabilities(gen func() (driven.Generator, error), emb func() (driven.EmbeddingService, error)) {
	newGenerator = gen
	newEmbedder = emb
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
