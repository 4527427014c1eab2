package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// WriteJSON writes the full report document to path, indented for
// human diffing.
func WriteJSON(report Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// PrintSummary renders a colored per-case table plus the suite totals.
func PrintSummary(w io.Writer, report Report) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	for _, r := range report.Results {
		status := pass("PASS")
		if !r.Passed {
			status = fail("FAIL")
		}
		fmt.Fprintf(w, "%s  %-24s %d/%d\n", status, r.ID, r.Score, r.Max)
		for _, fb := range r.Feedback {
			fmt.Fprintf(w, "      - %s\n", fb)
		}
	}

	s := report.Summary
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d/%d passed (%.1f%%)\n", bold("Suite:"), s.Passed, s.TotalTests, s.PassRate)
	fmt.Fprintf(w, "%s %d/%d points (%.1f%%)\n", bold("Score:"), s.TotalScore, s.TotalMax, s.OverallScore)

	grade := pass(s.Grade)
	if s.Grade == "D" || s.Grade == "F" {
		grade = fail(s.Grade)
	}
	fmt.Fprintf(w, "%s %s\n", bold("Grade:"), grade)
}
