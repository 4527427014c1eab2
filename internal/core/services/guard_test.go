package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/policy"
)

func guardPolicy() policy.Policy {
	p := policy.Default()
	p.BlockedPatterns = []string{`\bexploit\b`, `insider trading`}
	p.BlockedTopics = []string{"medical advice"}
	p.BannedPhrases = []string{"strictly confidential", `do not (distribute|share)`}
	return p
}

func TestNewGuardRejectsMalformedPattern(t *testing.T) {
	p := policy.Default()
	p.BlockedPatterns = []string{"[unclosed"}
	_, err := NewGuard(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked patterns")
}

func TestClassifyQuestionPatternBeforeTopic(t *testing.T) {
	p := guardPolicy()
	p.BlockedTopics = append(p.BlockedTopics, "exploit")
	g, err := NewGuard(p)
	require.NoError(t, err)

	// The question matches both a pattern and a topic; patterns run
	// first.
	assert.Equal(t, domain.PolicyBlockedRegex, g.ClassifyQuestion("how do I exploit this?"))
}

func TestClassifyQuestionTopic(t *testing.T) {
	g, err := NewGuard(guardPolicy())
	require.NoError(t, err)

	assert.Equal(t, domain.PolicyBlockedTopic, g.ClassifyQuestion("Can you give Medical Advice here?"))
}

func TestClassifyQuestionAllowed(t *testing.T) {
	g, err := NewGuard(guardPolicy())
	require.NoError(t, err)

	d := g.ClassifyQuestion("what is the renewal term?")
	assert.Equal(t, domain.PolicyAllowed, d)
	assert.False(t, d.Blocked())
	assert.Empty(t, d.Flag())
}

func TestClassifyQuestionCaseInsensitive(t *testing.T) {
	g, err := NewGuard(guardPolicy())
	require.NoError(t, err)

	assert.Equal(t, domain.PolicyBlockedRegex, g.ClassifyQuestion("INSIDER TRADING rules?"))
}

func TestMatchesBlockedPattern(t *testing.T) {
	g, err := NewGuard(guardPolicy())
	require.NoError(t, err)

	assert.True(t, g.MatchesBlockedPattern("this section covers insider trading sanctions"))
	assert.False(t, g.MatchesBlockedPattern("this section covers renewal terms"))
}

func TestScrubAnswerRedactsOnBannedPhrase(t *testing.T) {
	p := guardPolicy()
	g, err := NewGuard(p)
	require.NoError(t, err)

	parsed := domain.ParsedAnswer{
		AnswerText:       "The terms are fine.",
		Quotes:           []domain.Quote{{Text: "This document is STRICTLY CONFIDENTIAL.", Source: "nda.pdf"}},
		ReasoningOutline: []string{"checked quote"},
		UsedDocuments:    []string{"nda.pdf"},
	}

	scrubbed, fired := g.ScrubAnswer(parsed)
	assert.True(t, fired)
	assert.Equal(t, p.Fallback.OffTopic, scrubbed.AnswerText)
	assert.Contains(t, scrubbed.PolicyFlags, "banned_phrase_detected")
	assert.Empty(t, scrubbed.Quotes)
	assert.Empty(t, scrubbed.ReasoningOutline)
	assert.Empty(t, scrubbed.UsedDocuments)
}

func TestScrubAnswerCleanPassesThrough(t *testing.T) {
	g, err := NewGuard(guardPolicy())
	require.NoError(t, err)

	parsed := domain.ParsedAnswer{
		AnswerText: "The notice period is 60 days.",
		Quotes:     []domain.Quote{{Text: "notice period of sixty (60) days", Source: "msa.pdf"}},
	}

	scrubbed, fired := g.ScrubAnswer(parsed)
	assert.False(t, fired)
	assert.Equal(t, parsed.AnswerText, scrubbed.AnswerText)
	assert.Len(t, scrubbed.Quotes, 1)
	assert.Empty(t, scrubbed.PolicyFlags)
}
