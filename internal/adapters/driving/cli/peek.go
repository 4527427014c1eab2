package cli

import (
	"github.com/spf13/cobra"

	"github.com/archivist-labs/docqa/internal/core/services"
)

var peekCmd = &cobra.Command{
	Use:   "peek [question]",
	Short: "Show the retrieval candidates for a question without generating an answer",
	Long: `Runs retrieval, filtering and reranking for a question and prints the
resulting candidates with their scores. Useful for tuning the policy
document and diagnosing low-relevance refusals. No generator call is
made.`,
	Args: cobra.ExactArgs(1),
	RunE: runPeek,
}

func init() {
	rootCmd.AddCommand(peekCmd)
}

func runPeek(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, index, err := buildIndex(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	guard, err := services.NewGuard(pol)
	if err != nil {
		return err
	}

	question := services.NormalizeQueryAliases(args[0], pol.EntityAliases)
	if decision := guard.ClassifyQuestion(question); decision.Blocked() {
		cmd.Printf("Question would be blocked: %s\n", decision.Flag())
		return nil
	}

	retriever := services.NewRetriever(index, guard, pol)
	candidates, err := retriever.RetrieveAndRerank(ctx, question, "")
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		cmd.Println("No candidates found.")
		return nil
	}

	gate := services.NewGate(index, pol)
	if gate.IsLowRelevance(ctx, question, candidates) {
		cmd.Println("Note: this question would be refused as low relevance.")
		cmd.Println()
	}

	for i, c := range candidates {
		cmd.Printf("[%d] %s", i+1, c.Chunk.Source.Filename)
		if len(c.Chunk.Pages) > 0 {
			cmd.Printf(" pages %v", c.Chunk.Pages)
		}
		cmd.Println()
		cmd.Printf("    lexical %.3f", c.Lexical)
		if c.Distance >= 0 {
			cmd.Printf("  distance %.3f", c.Distance)
		}
		cmd.Println()
		if c.Chunk.Section != "" {
			cmd.Printf("    section: %s\n", c.Chunk.Section)
		}
		cmd.Printf("    %s\n", snippet(c.Chunk.Text, 160))
		cmd.Println()
	}

	return nil
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
