package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archivist-labs/docqa/internal/bench"
)

var benchOutput string

var benchCmd = &cobra.Command{
	Use:   "bench [suite.jsonl]",
	Short: "Run a graded benchmark suite through the pipeline",
	Long: `Asks every question in a JSONL suite and grades the answers on
content, citations, quote counts, policy behavior and optional numeric
checks. Prints a per-case summary and writes the full report as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchOutput, "output", "o", "bench_report.json", "path for the JSON report")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	cases, err := bench.LoadSuite(args[0])
	if err != nil {
		return err
	}

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

	report := bench.Run(ctx, pipeline, cases)

	bench.PrintSummary(cmd.OutOrStdout(), report)
	if err := bench.WriteJSON(report, benchOutput); err != nil {
		return err
	}
	cmd.Printf("\nReport written to %s\n", benchOutput)

	if report.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d cases failed", report.Summary.Failed, report.Summary.TotalTests)
	}
	return nil
}
