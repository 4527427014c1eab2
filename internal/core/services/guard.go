package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/logger"
	"github.com/archivist-labs/docqa/internal/policy"
)

// Guard enforces content policy around the pipeline: it classifies
// questions before retrieval and scrubs generated answers afterwards.
// Rule data comes from the policy document; matching semantics are
// fixed (ordered, case-insensitive, first match wins).
type Guard struct {
	blocked  []*regexp.Regexp
	topics   []string
	banned   []*regexp.Regexp
	fallback policy.Fallback
}

// NewGuard compiles the policy's rule lists. A malformed pattern is a
// configuration error and fails construction.
func NewGuard(p policy.Policy) (*Guard, error) {
	blocked, err := compileAll(p.BlockedPatterns)
	if err != nil {
		return nil, fmt.Errorf("compile blocked patterns: %w", err)
	}
	banned, err := compileAll(p.BannedPhrases)
	if err != nil {
		return nil, fmt.Errorf("compile banned phrases: %w", err)
	}

	return &Guard{
		blocked:  blocked,
		topics:   p.BlockedTopics,
		banned:   banned,
		fallback: p.Fallback,
	}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile("(?i:" + pat + ")")
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pat, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// ClassifyQuestion checks a question against the blocked-pattern rules
// first, then the blocked-topic keywords. The first rule to fire wins.
func (g *Guard) ClassifyQuestion(question string) domain.PolicyDecision {
	lower := strings.ToLower(question)

	for _, re := range g.blocked {
		if re.MatchString(lower) {
			logger.Warn("question blocked by pattern %q", re.String())
			return domain.PolicyBlockedRegex
		}
	}

	for _, topic := range g.topics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			logger.Warn("question blocked by topic %q", topic)
			return domain.PolicyBlockedTopic
		}
	}

	return domain.PolicyAllowed
}

// MatchesBlockedPattern reports whether the text matches any
// blocked-content pattern. Used to filter retrieved chunks.
func (g *Guard) MatchesBlockedPattern(text string) bool {
	for _, re := range g.blocked {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ScrubAnswer checks the generated answer text plus every quote
// against the banned-phrase rules. On any match the answer is fully
// redacted with the fallback message and the banned-phrase flag is
// appended. The returned bool reports whether a phrase fired.
func (g *Guard) ScrubAnswer(parsed domain.ParsedAnswer) (domain.ParsedAnswer, bool) {
	parts := make([]string, 0, len(parsed.Quotes)+1)
	parts = append(parts, parsed.AnswerText)
	for _, q := range parsed.Quotes {
		parts = append(parts, q.Text)
	}
	blob := strings.Join(parts, " \n")

	for _, re := range g.banned {
		if re.MatchString(blob) {
			logger.Warn("banned phrase detected, redacting answer")
			parsed.PolicyFlags = append(parsed.PolicyFlags, domain.PolicyBannedPhrase.Flag())
			parsed.AnswerText = g.fallback.OffTopic
			parsed.Quotes = nil
			parsed.ReasoningOutline = nil
			parsed.UsedDocuments = nil
			return parsed, true
		}
	}

	return parsed, false
}
