package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
	"github.com/archivist-labs/docqa/internal/logger"
	"github.com/archivist-labs/docqa/internal/policy"
)

// aliasProbeK is the k used for the supplementary per-alias searches
// during entity front-loading.
const aliasProbeK = 3

// Retriever fetches candidates from the similarity-search capability
// and reorders them: off-topic filter, lexical rerank, entity
// front-loading.
type Retriever struct {
	searcher driven.SimilaritySearcher
	guard    *Guard
	aliases  map[string][]string
	params   driven.SearchParams
}

// NewRetriever creates a retriever. The guard supplies the compiled
// blocked-content patterns for the off-topic filter.
func NewRetriever(searcher driven.SimilaritySearcher, guard *Guard, p policy.Policy) *Retriever {
	return &Retriever{
		searcher: searcher,
		guard:    guard,
		aliases:  p.EntityAliases,
		params: driven.SearchParams{
			K:      p.Retrieval.K,
			FetchK: p.Retrieval.FetchK,
			Lambda: p.Retrieval.Lambda,
		},
	}
}

// RetrieveAndRerank runs the retrieval stage for one question. The
// conversation context, when present, enriches the search query but
// never the rerank scoring.
func (r *Retriever) RetrieveAndRerank(
	ctx context.Context, question, conversationContext string,
) ([]domain.RetrievalCandidate, error) {
	if r.searcher == nil {
		return nil, domain.ErrSearchUnavailable
	}

	query := question
	if conversationContext != "" {
		query = question + "\n\n[Conversation context]\n" + conversationContext
	}

	hits, err := r.searcher.Search(ctx, query, r.params)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	logger.Info("retrieved %d initial candidates", len(hits))

	candidates := make([]domain.RetrievalCandidate, len(hits))
	for i, hit := range hits {
		candidates[i] = domain.RetrievalCandidate{Chunk: hit.Chunk, Distance: hit.Distance}
	}

	candidates = r.filterOffTopic(candidates)
	logger.Debug("after off-topic filter: %d candidates", len(candidates))

	candidates = r.rerankLexical(question, candidates)
	candidates = r.frontLoadEntities(ctx, question, candidates)

	return candidates, nil
}

// filterOffTopic removes candidates whose text matches a blocked
// pattern. If that would remove everything, the original set is kept:
// filtering alone never empties the result.
func (r *Retriever) filterOffTopic(candidates []domain.RetrievalCandidate) []domain.RetrievalCandidate {
	if r.guard == nil {
		return candidates
	}

	kept := make([]domain.RetrievalCandidate, 0, len(candidates))
	for _, c := range candidates {
		if r.guard.MatchesBlockedPattern(c.Chunk.Text) {
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) == 0 {
		return candidates
	}
	return kept
}

// rerankLexical scores every candidate against the question and sorts
// descending. The sort is stable: ties keep retrieval order.
func (r *Retriever) rerankLexical(question string, candidates []domain.RetrievalCandidate) []domain.RetrievalCandidate {
	for i := range candidates {
		candidates[i].Lexical = LexicalOverlap(question, candidates[i].Chunk.Text)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Lexical > candidates[j].Lexical
	})

	return candidates
}

// frontLoadEntities moves candidates naming a tracked entity to the
// front. When the current set has none, one supplementary search per
// alias variant pulls matches in; the merge de-duplicates by source
// and pages while otherwise preserving relative order.
func (r *Retriever) frontLoadEntities(
	ctx context.Context, question string, candidates []domain.RetrievalCandidate,
) []domain.RetrievalCandidate {
	tokens := AliasTokens(question, r.aliases)
	if len(tokens) == 0 {
		return candidates
	}

	var must []domain.RetrievalCandidate
	for _, c := range candidates {
		if candidateHasAlias(c, tokens) {
			must = append(must, c)
		}
	}

	if len(must) == 0 {
		for _, tok := range tokens {
			extra, err := r.searcher.SearchExact(ctx, tok, aliasProbeK)
			if err != nil {
				logger.Warn("alias probe %q failed: %v", tok, err)
				continue
			}
			for _, hit := range extra {
				c := domain.RetrievalCandidate{Chunk: hit.Chunk, Distance: hit.Distance}
				if candidateHasAlias(c, tokens) {
					must = append(must, c)
				}
			}
		}
	}

	if len(must) == 0 {
		return candidates
	}
	logger.Debug("front-loading %d entity candidates", len(must))

	seen := make(map[string]bool)
	ordered := make([]domain.RetrievalCandidate, 0, len(candidates)+len(must))
	for _, c := range append(must, candidates...) {
		key := fmt.Sprintf("%s#%v", c.Chunk.Source.Filename, c.Chunk.Pages)
		if seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, c)
	}

	return ordered
}
