package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

var (
	askConversation string
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the ingested documents",
	Long: `Answers a question strictly from the ingested material. The answer
carries verbatim quotes with source and page, the documents used, and
an advisory confidence estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "conversation id for follow-up questions")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full structured result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, index, err := buildIndex(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline, err := buildPipeline(index)
	if err != nil {
		return err
	}

	result, err := pipeline.Ask(ctx, args[0], askConversation)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printResult(cmd, result)
	return nil
}

func printResult(cmd *cobra.Command, result domain.QueryResult) {
	cmd.Println(result.Answer)
	cmd.Println()

	if len(result.Parsed.Quotes) > 0 {
		cmd.Println("Quotes:")
		for i, q := range result.Parsed.Quotes {
			loc := q.Source
			if q.Page != "" {
				loc = fmt.Sprintf("%s, page %s", q.Source, q.Page)
			}
			cmd.Printf("  [%d] %q (%s)\n", i+1, q.Text, loc)
		}
		cmd.Println()
	}

	if len(result.Sources) > 0 {
		cmd.Printf("Sources: %v\n", result.Sources)
	}
	if result.Confidence.Level != "" {
		cmd.Printf("Confidence: %s (%.2f)\n", result.Confidence.Level, result.Confidence.Score)
	}
	if result.Parsed.Disclaimer != "" {
		cmd.Println()
		cmd.Println(result.Parsed.Disclaimer)
	}
}
