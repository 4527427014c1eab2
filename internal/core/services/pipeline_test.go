package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
	"github.com/archivist-labs/docqa/internal/policy"
)

func newTestPipeline(t *testing.T, searcher driven.SimilaritySearcher, gen driven.Generator, runLog driven.RunLog, p policy.Policy) *Pipeline {
	t.Helper()
	guard, err := NewGuard(p)
	require.NoError(t, err)
	return NewPipeline(
		guard,
		NewRetriever(searcher, guard, p),
		NewGate(searcher, p),
		gen,
		NewMemory(p),
		runLog,
		p,
	)
}

func answeringSetup() (*mockSearcher, *mockGenerator) {
	searcher := &mockSearcher{hits: []driven.Hit{
		hit("msa.pdf", "the notice period for termination is sixty days", 0.3),
	}}
	gen := &mockGenerator{response: `{
		"answer_text": "The notice period is 60 days.",
		"quotes": [{"quote": "notice period for termination is sixty days", "source": "msa.pdf", "page": 4}],
		"reasoning_outline": ["found termination clause"],
		"used_documents": ["msa.pdf"]
	}`}
	return searcher, gen
}

func TestAskAnswersWithCitations(t *testing.T) {
	searcher, gen := answeringSetup()
	runLog := &mockRunLog{}
	p := newTestPipeline(t, searcher, gen, runLog, policy.Default())

	result, err := p.Ask(context.Background(), "what is the notice period for termination?", "conv-1")
	require.NoError(t, err)

	assert.Equal(t, "The notice period is 60 days.", result.Answer)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Parsed.Quotes, 1)
	assert.Equal(t, []string{"msa.pdf"}, result.Sources)
	assert.NotEmpty(t, result.Parsed.Disclaimer)
	assert.Greater(t, result.Confidence.Score, 0.0)

	require.Len(t, runLog.records, 1)
	assert.Equal(t, result.RunID, runLog.records[0].RunID)
	assert.Equal(t, "conv-1", runLog.records[0].ConversationID)
	assert.NotEmpty(t, runLog.records[0].RawOutput)
}

func TestAskBlockedQuestionSkipsGenerator(t *testing.T) {
	p := policy.Default()
	p.BlockedPatterns = []string{"insider trading"}
	searcher, gen := answeringSetup()
	runLog := &mockRunLog{}
	pipe := newTestPipeline(t, searcher, gen, runLog, p)

	result, err := pipe.Ask(context.Background(), "how do I get away with insider trading?", "")
	require.NoError(t, err)

	assert.Equal(t, p.Fallback.OffDomain, result.Answer)
	assert.Equal(t, []string{"blocked_regex"}, result.Parsed.PolicyFlags)
	assert.Empty(t, result.Parsed.Quotes)
	assert.Empty(t, result.Parsed.UsedDocuments)
	assert.Equal(t, "low", result.Confidence.Level)

	assert.Zero(t, gen.callCount())
	assert.Empty(t, searcher.queries)

	require.Len(t, runLog.records, 1)
	assert.Equal(t, []string{"blocked_regex"}, runLog.records[0].PolicyFlags)
}

func TestAskBlockedTopic(t *testing.T) {
	p := policy.Default()
	p.BlockedTopics = []string{"medical advice"}
	searcher, gen := answeringSetup()
	pipe := newTestPipeline(t, searcher, gen, nil, p)

	result, err := pipe.Ask(context.Background(), "can you give medical advice?", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"blocked_topic"}, result.Parsed.PolicyFlags)
	assert.Zero(t, gen.callCount())
}

func TestAskLowRelevanceGated(t *testing.T) {
	p := policy.Default()
	// The searcher returns nothing at all.
	searcher := &mockSearcher{}
	gen := &mockGenerator{}
	pipe := newTestPipeline(t, searcher, gen, nil, p)

	result, err := pipe.Ask(context.Background(), "explain quantum gravity", "")
	require.NoError(t, err)

	assert.Equal(t, p.Fallback.OffTopic, result.Answer)
	assert.Equal(t, []string{"low_relevance"}, result.Parsed.PolicyFlags)
	assert.Zero(t, gen.callCount())
}

func TestAskEmptyQuestion(t *testing.T) {
	searcher, gen := answeringSetup()
	pipe := newTestPipeline(t, searcher, gen, nil, policy.Default())

	_, err := pipe.Ask(context.Background(), "   ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskGeneratorErrorPropagates(t *testing.T) {
	searcher, gen := answeringSetup()
	gen.err = errors.New("model timeout")
	pipe := newTestPipeline(t, searcher, gen, nil, policy.Default())

	_, err := pipe.Ask(context.Background(), "what is the notice period for termination?", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation")
}

func TestAskSearchErrorPropagates(t *testing.T) {
	searcher, gen := answeringSetup()
	searcher.searchErr = errors.New("index offline")
	pipe := newTestPipeline(t, searcher, gen, nil, policy.Default())

	_, err := pipe.Ask(context.Background(), "what is the notice period for termination?", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval")
}

func TestAskBannedPhraseRedacts(t *testing.T) {
	p := policy.Default()
	p.BannedPhrases = []string{"strictly confidential"}
	searcher, gen := answeringSetup()
	gen.response = `{
		"answer_text": "ok",
		"quotes": [{"quote": "this material is strictly confidential", "source": "nda.pdf"}]
	}`
	pipe := newTestPipeline(t, searcher, gen, nil, p)

	result, err := pipe.Ask(context.Background(), "what is the notice period for termination?", "")
	require.NoError(t, err)

	assert.Equal(t, p.Fallback.OffTopic, result.Answer)
	assert.Contains(t, result.Parsed.PolicyFlags, "banned_phrase_detected")
	assert.Empty(t, result.Parsed.Quotes)
	assert.Empty(t, result.Sources)
}

func TestAskDegradedParseStillAnswers(t *testing.T) {
	p := policy.Default()
	searcher, gen := answeringSetup()
	gen.response = "no json here, sorry"
	pipe := newTestPipeline(t, searcher, gen, nil, p)

	result, err := pipe.Ask(context.Background(), "what is the notice period for termination?", "")
	require.NoError(t, err)
	assert.Equal(t, p.Fallback.LowConfidence, result.Answer)
	assert.Empty(t, result.Parsed.Quotes)
}

func TestAskConversationMemoryFlowsIntoRetrieval(t *testing.T) {
	searcher, gen := answeringSetup()
	pipe := newTestPipeline(t, searcher, gen, nil, policy.Default())

	_, err := pipe.Ask(context.Background(), "what is the notice period for termination?", "conv-7")
	require.NoError(t, err)
	_, err = pipe.Ask(context.Background(), "and for termination renewal?", "conv-7")
	require.NoError(t, err)

	require.Len(t, searcher.queries, 2)
	assert.NotContains(t, searcher.queries[0], "[Conversation context]")
	assert.Contains(t, searcher.queries[1], "[Conversation context]")
	assert.Contains(t, searcher.queries[1], "[Turn 1]")
}

func TestAskRecordsRawQuestionNotNormalized(t *testing.T) {
	searcher := &mockSearcher{hits: []driven.Hit{
		hit("acme_msa.pdf", "acme corporation payment obligations", 0.3),
	}}
	gen := &mockGenerator{response: `{"answer_text": "Acme owes the monthly fee."}`}
	runLog := &mockRunLog{}

	p := policy.Default()
	p.EntityAliases = testAliases
	pipe := newTestPipeline(t, searcher, gen, runLog, p)

	_, err := pipe.Ask(context.Background(), "what does acme corp owe?", "conv-9")
	require.NoError(t, err)

	// Alias normalization drives retrieval only.
	require.Len(t, searcher.queries, 1)
	assert.Contains(t, searcher.queries[0], "(Acme Corporation)")

	require.Len(t, runLog.records, 1)
	assert.Equal(t, "what does acme corp owe?", runLog.records[0].Question)

	history := pipe.memory.Context("conv-9")
	assert.Contains(t, history, "Q: what does acme corp owe?")
	assert.NotContains(t, history, "(Acme Corporation)")
}

func TestAskRunLogErrorDoesNotFailQuery(t *testing.T) {
	searcher, gen := answeringSetup()
	runLog := &mockRunLog{err: errors.New("disk full")}
	pipe := newTestPipeline(t, searcher, gen, runLog, policy.Default())

	result, err := pipe.Ask(context.Background(), "what is the notice period for termination?", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Answer)
}

func TestAskNilRunLog(t *testing.T) {
	searcher, gen := answeringSetup()
	pipe := newTestPipeline(t, searcher, gen, nil, policy.Default())

	_, err := pipe.Ask(context.Background(), "what is the notice period for termination?", "")
	assert.NoError(t, err)
}
