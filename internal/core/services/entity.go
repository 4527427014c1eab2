package services

import (
	"sort"
	"strings"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

// AliasTokens returns the variant list of the first tracked entity
// named by the question, or nil. Canonical names are checked in sorted
// order so the result is deterministic.
func AliasTokens(question string, aliases map[string][]string) []string {
	lower := strings.ToLower(question)

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, variant := range aliases[name] {
			if strings.Contains(lower, strings.ToLower(variant)) {
				return aliases[name]
			}
		}
	}
	return nil
}

// NormalizeQueryAliases rewrites separator characters to spaces and
// appends the canonical entity name when the question uses a variant,
// improving recall for entity-named documents.
func NormalizeQueryAliases(question string, aliases map[string][]string) string {
	q := strings.NewReplacer("_", " ", "-", " ").Replace(question)
	lower := strings.ToLower(q)

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, variant := range aliases[name] {
			if strings.Contains(lower, strings.ToLower(variant)) {
				return q + " (" + name + ")"
			}
		}
	}
	return q
}

// candidateHasAlias reports whether the candidate names any of the
// alias tokens in its source filename or body text.
func candidateHasAlias(c domain.RetrievalCandidate, tokens []string) bool {
	src := strings.ToLower(c.Chunk.Source.Filename)
	body := strings.ToLower(c.Chunk.Text)
	for _, tok := range tokens {
		lt := strings.ToLower(tok)
		if strings.Contains(src, lt) || strings.Contains(body, lt) {
			return true
		}
	}
	return false
}
