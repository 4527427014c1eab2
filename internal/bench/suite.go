package bench

import (
	"context"
	"math"

	"github.com/archivist-labs/docqa/internal/core/ports/driving"
	"github.com/archivist-labs/docqa/internal/logger"
)

// Run asks every case through the query service and grades the
// results. A case whose query errors scores zero but does not abort
// the suite. Each case runs in a fresh conversation.
func Run(ctx context.Context, svc driving.QueryService, cases []Case) Report {
	results := make([]CaseResult, 0, len(cases))

	for _, c := range cases {
		logger.Info("bench case %s", c.ID)

		result, err := svc.Ask(ctx, c.Question, "")
		if err != nil {
			results = append(results, CaseResult{
				ID:       c.ID,
				Question: c.Question,
				Max:      caseMax(c),
				Err:      err.Error(),
				Feedback: []string{"Query failed: " + err.Error()},
			})
			continue
		}

		results = append(results, Grade(c, result))
	}

	return Report{
		Summary: Summarize(results),
		Results: results,
	}
}

func caseMax(c Case) int {
	if c.PolicyExpect != nil && c.PolicyExpect.MathCheck != nil {
		return 7
	}
	return 6
}

// Summarize aggregates graded results into the suite summary.
func Summarize(results []CaseResult) Summary {
	s := Summary{TotalTests: len(results)}

	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		s.TotalScore += r.Score
		s.TotalMax += r.Max
	}

	if s.TotalTests > 0 {
		s.PassRate = round1(float64(s.Passed) / float64(s.TotalTests) * 100)
	}
	if s.TotalMax > 0 {
		overall := float64(s.TotalScore) / float64(s.TotalMax) * 100
		s.Grade = gradeLetter(overall)
		s.OverallScore = round1(overall)
	} else {
		s.Grade = gradeLetter(0)
	}

	return s
}

func gradeLetter(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// round1 matches the one-decimal percentages in the report format.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
