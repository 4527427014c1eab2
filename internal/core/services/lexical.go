package services

import (
	"math"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// LexicalOverlap scores the token-set overlap between a query and a
// text, normalized by the geometric mean of the two set sizes. The
// result is deterministic and independent of embeddings.
func LexicalOverlap(query, text string) float64 {
	q := tokenSet(query)
	t := tokenSet(text)
	if len(q) == 0 || len(t) == 0 {
		return 0
	}

	inter := 0
	for tok := range q {
		if t[tok] {
			inter++
		}
	}

	return float64(inter) / (math.Sqrt(float64(len(q))) * math.Sqrt(float64(len(t))))
}

func tokenSet(s string) map[string]bool {
	tokens := wordPattern.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

// summarize truncates s to at most max characters, appending an
// ellipsis when content was dropped.
func summarize(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
