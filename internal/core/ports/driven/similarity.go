package driven

import (
	"context"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

// SimilaritySearcher provides semantic similarity search over indexed
// chunks. The index, the embedding model and the distance metric are
// external to the core; the core only assumes that smaller distances
// mean closer matches, roughly bounded in [0,2].
type SimilaritySearcher interface {
	// Search retrieves candidates with a diversity-aware strategy:
	// a pool of FetchK hits is narrowed to K by maximal marginal
	// relevance at the given Lambda trade-off.
	Search(ctx context.Context, query string, params SearchParams) ([]Hit, error)

	// SearchExact returns the k nearest hits by plain similarity,
	// with their distances. Used by the relevance gate's distance check.
	SearchExact(ctx context.Context, query string, k int) ([]Hit, error)
}

// SearchParams configures a diversity-aware search.
type SearchParams struct {
	// K is the number of candidates to return.
	K int

	// FetchK is the size of the wider pool fetched before MMR
	// selection.
	FetchK int

	// Lambda balances relevance against distinctiveness in [0,1];
	// 1 is pure relevance.
	Lambda float64
}

// Hit is one similarity-search result.
type Hit struct {
	// Chunk is the matched retrieval unit.
	Chunk domain.Chunk

	// Distance is the search distance; smaller = more similar.
	Distance float64
}

// ChunkIndexer ingests chunks into the similarity index. Implemented by
// the same adapters that implement SimilaritySearcher; split out so the
// query path never sees write operations.
type ChunkIndexer interface {
	// IndexChunks adds or replaces chunks in the index.
	IndexChunks(ctx context.Context, chunks []domain.Chunk) error

	// DeleteSource removes every chunk assembled from the named file.
	DeleteSource(ctx context.Context, filename string) error
}
