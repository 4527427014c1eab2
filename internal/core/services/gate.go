package services

import (
	"context"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
	"github.com/archivist-labs/docqa/internal/logger"
	"github.com/archivist-labs/docqa/internal/policy"
)

// distanceProbeK is how many nearest hits the fallback distance
// check inspects.
const distanceProbeK = 3

// Gate decides whether a candidate set is relevant enough to answer
// from. The checks run in a fixed order; the first decisive one wins.
type Gate struct {
	searcher         driven.SimilaritySearcher
	aliases          map[string][]string
	lexicalThreshold float64
	maxDistance      float64
}

func NewGate(searcher driven.SimilaritySearcher, p policy.Policy) *Gate {
	return &Gate{
		searcher:         searcher,
		aliases:          p.EntityAliases,
		lexicalThreshold: p.Retrieval.LexicalThreshold,
		maxDistance:      p.Retrieval.MaxDistance,
	}
}

// IsLowRelevance reports whether the question should be refused for
// lack of supporting material. Candidates must already be reranked.
func (g *Gate) IsLowRelevance(ctx context.Context, question string, candidates []domain.RetrievalCandidate) bool {
	if len(candidates) == 0 {
		logger.Debug("gate: empty candidate set")
		return true
	}

	tokens := AliasTokens(question, g.aliases)
	if len(tokens) > 0 {
		top := candidates
		if len(top) > 5 {
			top = top[:5]
		}
		for _, c := range top {
			if candidateHasAlias(c, tokens) {
				logger.Debug("gate: entity match in top candidates")
				return false
			}
		}
	}

	if candidates[0].Lexical >= g.lexicalThreshold {
		logger.Debug("gate: lexical %.3f above threshold", candidates[0].Lexical)
		return false
	}

	if g.searcher == nil {
		return false
	}
	hits, err := g.searcher.SearchExact(ctx, question, distanceProbeK)
	if err != nil {
		// Permissive on probe failure: never refuse on a transport error.
		logger.Warn("gate: distance probe failed: %v", err)
		return false
	}
	// Hits without a usable distance do not count as support; low
	// relevance unless some hit reports a distance within the ceiling.
	for _, h := range hits {
		if h.Distance >= 0 && h.Distance <= g.maxDistance {
			return false
		}
	}
	logger.Debug("gate: no probe hit within distance ceiling %.3f", g.maxDistance)
	return true
}
