package bench

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

// passThreshold is the fraction of the maximum score a case must
// reach to pass. With the optional math component present this is 5
// of 7 points.
const passThreshold = 5.0 / 7.0

var numberPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// Grade scores one pipeline result against a case's expectations. All
// text matching is case-insensitive substring matching.
func Grade(c Case, result domain.QueryResult) CaseResult {
	r := CaseResult{
		ID:       c.ID,
		Question: c.Question,
		Answer:   result.Answer,
	}

	r.Components.Content = gradeContent(c, result, &r)
	r.Components.Citations = gradeCitations(c, result, &r)
	r.Components.Quotes = gradeQuotes(c, result, &r)
	r.Components.Policy = gradePolicy(c, result, &r)

	r.Score = r.Components.Content + r.Components.Citations + r.Components.Quotes + r.Components.Policy
	r.Max = 6

	if c.PolicyExpect != nil && c.PolicyExpect.MathCheck != nil {
		r.Components.Math = gradeMath(c.PolicyExpect.MathCheck.Expected, result.Answer, &r)
		r.Score += r.Components.Math
		r.Max = 7
	}

	r.Passed = float64(r.Score) >= passThreshold*float64(r.Max)
	return r
}

// gradeContent awards up to 2 points for required content. Any
// prohibited term zeroes the component.
func gradeContent(c Case, result domain.QueryResult, r *CaseResult) int {
	answer := strings.ToLower(result.Answer)

	for _, term := range c.MustExclude {
		if strings.Contains(answer, strings.ToLower(term)) {
			r.Feedback = append(r.Feedback, fmt.Sprintf("Prohibited term present: %q", term))
			return 0
		}
	}

	if len(c.MustInclude) == 0 {
		return 2
	}

	found := 0
	for _, term := range c.MustInclude {
		if strings.Contains(answer, strings.ToLower(term)) {
			found++
		} else {
			r.Feedback = append(r.Feedback, fmt.Sprintf("Missing required content: %q", term))
		}
	}

	ratio := float64(found) / float64(len(c.MustInclude))
	switch {
	case ratio >= 1.0:
		return 2
	case ratio >= 0.5:
		return 1
	default:
		return 0
	}
}

// gradeCitations awards up to 2 points for citing the required
// sources; a required filename counts when it is a substring of any
// cited source.
func gradeCitations(c Case, result domain.QueryResult, r *CaseResult) int {
	if len(c.MustCite) == 0 {
		return 2
	}

	cited := make([]string, 0, len(result.Parsed.Quotes)+len(result.Parsed.UsedDocuments))
	for _, q := range result.Parsed.Quotes {
		cited = append(cited, strings.ToLower(q.Source))
	}
	for _, d := range result.Parsed.UsedDocuments {
		cited = append(cited, strings.ToLower(d))
	}

	found := 0
	for _, want := range c.MustCite {
		lw := strings.ToLower(want)
		ok := false
		for _, have := range cited {
			if strings.Contains(have, lw) {
				ok = true
				break
			}
		}
		if ok {
			found++
		} else {
			r.Feedback = append(r.Feedback, fmt.Sprintf("Missing citation: %q", want))
		}
	}

	ratio := float64(found) / float64(len(c.MustCite))
	switch {
	case ratio >= 1.0:
		return 2
	case ratio >= 0.5:
		return 1
	default:
		return 0
	}
}

// gradeQuotes awards 1 point when the quote count sits inside the
// expected inclusive range. A nil bound is unbounded on that side.
func gradeQuotes(c Case, result domain.QueryResult, r *CaseResult) int {
	if c.PolicyExpect == nil {
		return 1
	}

	n := len(result.Parsed.Quotes)
	if c.PolicyExpect.QuotesMin != nil && n < *c.PolicyExpect.QuotesMin {
		r.Feedback = append(r.Feedback, fmt.Sprintf("Too few quotes: %d < %d", n, *c.PolicyExpect.QuotesMin))
		return 0
	}
	if c.PolicyExpect.QuotesMax != nil && n > *c.PolicyExpect.QuotesMax {
		r.Feedback = append(r.Feedback, fmt.Sprintf("Too many quotes: %d > %d", n, *c.PolicyExpect.QuotesMax))
		return 0
	}
	return 1
}

// gradePolicy awards 1 point when the expected flags are present, the
// unexpected flags are absent, and the required answer text appears.
func gradePolicy(c Case, result domain.QueryResult, r *CaseResult) int {
	if c.PolicyExpect == nil {
		return 1
	}

	for _, flag := range c.PolicyExpect.FlagsPresent {
		if !result.Parsed.HasFlag(flag) {
			r.Feedback = append(r.Feedback, fmt.Sprintf("Expected policy flag missing: %q", flag))
			return 0
		}
	}
	for _, flag := range c.PolicyExpect.FlagsAbsent {
		if result.Parsed.HasFlag(flag) {
			r.Feedback = append(r.Feedback, fmt.Sprintf("Unexpected policy flag: %q", flag))
			return 0
		}
	}
	if want := c.PolicyExpect.MustAnswer; want != "" {
		if !strings.Contains(strings.ToLower(result.Answer), strings.ToLower(want)) {
			r.Feedback = append(r.Feedback, fmt.Sprintf("Answer missing required text: %q", want))
			return 0
		}
	}
	return 1
}

// gradeMath awards 1 point when the expected number appears among the
// numbers extracted from the answer. Thousands separators are
// stripped before parsing.
func gradeMath(expected float64, answer string, r *CaseResult) int {
	for _, m := range numberPattern.FindAllString(answer, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			continue
		}
		if v == expected {
			return 1
		}
	}
	r.Feedback = append(r.Feedback, fmt.Sprintf("Expected value %v not found in answer", expected))
	return 0
}
