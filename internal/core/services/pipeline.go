package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
	"github.com/archivist-labs/docqa/internal/core/ports/driving"
	"github.com/archivist-labs/docqa/internal/logger"
	"github.com/archivist-labs/docqa/internal/policy"
)

// Pipeline is the question-answering service: guard, retrieve, gate,
// generate, parse, scrub, score. Each stage either refuses with a
// policy flag or hands a narrower problem to the next.
type Pipeline struct {
	guard     *Guard
	retriever *Retriever
	gate      *Gate
	generator driven.Generator
	parser    *Parser
	memory    *Memory
	runLog    driven.RunLog
	policy    policy.Policy
}

var _ driving.QueryService = (*Pipeline)(nil)

// NewPipeline wires the service. The run log may be nil.
func NewPipeline(
	guard *Guard,
	retriever *Retriever,
	gate *Gate,
	generator driven.Generator,
	memory *Memory,
	runLog driven.RunLog,
	p policy.Policy,
) *Pipeline {
	return &Pipeline{
		guard:     guard,
		retriever: retriever,
		gate:      gate,
		generator: generator,
		parser:    NewParser(p),
		memory:    memory,
		runLog:    runLog,
		policy:    p,
	}
}

// Ask answers one question. Blocked and low-relevance questions get
// the configured fallback with the matching policy flag; the generator
// is only ever called for questions that pass both checks.
func (p *Pipeline) Ask(ctx context.Context, question, conversationID string) (domain.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.QueryResult{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	runID := newRunID()
	logger.Section("run " + runID)

	if decision := p.guard.ClassifyQuestion(question); decision.Blocked() {
		result := p.refuse(runID, p.policy.Fallback.OffDomain, decision.Flag())
		p.finishRun(ctx, runID, conversationID, question, "", result)
		return result, nil
	}

	// Retrieval sees the alias-normalized question; memory and the run
	// log keep the user's wording.
	normalized := NormalizeQueryAliases(question, p.policy.EntityAliases)
	convContext := p.memory.Context(conversationID)

	candidates, err := p.retriever.RetrieveAndRerank(ctx, normalized, convContext)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("retrieval: %w", err)
	}

	if p.gate.IsLowRelevance(ctx, normalized, candidates) {
		logger.Info("question gated as low relevance")
		result := p.refuse(runID, p.policy.Fallback.OffTopic, domain.PolicyLowRelevance.Flag())
		p.finishRun(ctx, runID, conversationID, question, "", result)
		return result, nil
	}

	userPrompt := BuildUserPrompt(normalized, convContext, candidates)
	raw, err := p.generator.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("generation: %w", err)
	}

	parsed, outcome := p.parser.Parse(raw)
	logger.Debug("parse outcome: %s", outcome)

	var redacted bool
	parsed, redacted = p.guard.ScrubAnswer(parsed)
	if redacted {
		logger.Warn("banned phrase detected, answer redacted")
	}

	result := domain.QueryResult{
		RunID:      runID,
		Answer:     parsed.AnswerText,
		Parsed:     parsed,
		Sources:    quoteSources(parsed.Quotes),
		Confidence: p.scoreRun(normalized, candidates, parsed),
	}

	p.finishRun(ctx, runID, conversationID, question, raw, result)
	return result, nil
}

// refuse builds the result for a blocked or gated question.
func (p *Pipeline) refuse(runID, fallback, flag string) domain.QueryResult {
	return domain.QueryResult{
		RunID:  runID,
		Answer: fallback,
		Parsed: domain.ParsedAnswer{
			AnswerText:  fallback,
			PolicyFlags: []string{flag},
			Disclaimer:  p.policy.Disclaimer,
		},
		Confidence: domain.Confidence{Level: "low"},
	}
}

// scoreRun gathers the confidence inputs from the retrieval set and
// the parsed answer.
func (p *Pipeline) scoreRun(question string, candidates []domain.RetrievalCandidate, parsed domain.ParsedAnswer) domain.Confidence {
	topLexical := 0.0
	if len(candidates) > 0 {
		topLexical = candidates[0].Lexical
	}

	var distances []float64
	for _, c := range candidates {
		if c.Distance >= 0 {
			distances = append(distances, c.Distance)
		}
	}

	entityMatched := false
	if tokens := AliasTokens(question, p.policy.EntityAliases); len(tokens) > 0 {
		for _, c := range candidates {
			if candidateHasAlias(c, tokens) {
				entityMatched = true
				break
			}
		}
	}

	return ScoreConfidence(topLexical, distances, entityMatched, len(parsed.Quotes), len(parsed.UsedDocuments))
}

// finishRun records the turn in memory and the run log. Neither step
// can fail the query.
func (p *Pipeline) finishRun(ctx context.Context, runID, conversationID, question, raw string, result domain.QueryResult) {
	p.memory.Append(conversationID, question, result.Answer)

	if p.runLog == nil {
		return
	}
	rec := driven.RunRecord{
		RunID:          runID,
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Question:       question,
		Answer:         result.Answer,
		Sources:        result.Sources,
		PolicyFlags:    result.Parsed.PolicyFlags,
		RawOutput:      raw,
		Parsed:         result.Parsed,
		Confidence:     result.Confidence,
	}
	if err := p.runLog.Record(ctx, rec); err != nil {
		logger.Warn("run log write failed: %v", err)
	}
}

// quoteSources lists the distinct filenames cited by quotes, in first
// appearance order.
func quoteSources(quotes []domain.Quote) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range quotes {
		if q.Source == "" || seen[q.Source] {
			continue
		}
		seen[q.Source] = true
		out = append(out, q.Source)
	}
	return out
}

func newRunID() string {
	return time.Now().UTC().Format("20060102T150405Z") + "_" + uuid.NewString()[:8]
}
