// Package memory provides an in-process similarity index. Vectors are
// computed through an embedding service and held in memory; search is
// exhaustive. Suitable for CLI-sized corpora, not for serving.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
	"github.com/archivist-labs/docqa/internal/logger"
)

var (
	_ driven.SimilaritySearcher = (*Index)(nil)
	_ driven.ChunkIndexer       = (*Index)(nil)
)

// Index is a brute-force vector index over chunks.
type Index struct {
	embedder driven.EmbeddingService

	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	chunk  domain.Chunk
	vector []float32
}

// New creates an empty index backed by the given embedding service.
func New(embedder driven.EmbeddingService) *Index {
	return &Index{
		embedder: embedder,
		entries:  make(map[string]entry),
	}
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// IndexChunks embeds and stores chunks. Re-indexing a chunk ID
// replaces the previous entry.
func (ix *Index) IndexChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	ix.mu.Lock()
	for i, c := range chunks {
		ix.entries[c.ID] = entry{chunk: c, vector: vectors[i]}
	}
	ix.mu.Unlock()

	logger.Debug("indexed %d chunks", len(chunks))
	return nil
}

// DeleteSource removes every chunk assembled from the named file.
func (ix *Index) DeleteSource(_ context.Context, filename string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for id, e := range ix.entries {
		if e.chunk.Source.Filename == filename {
			delete(ix.entries, id)
		}
	}
	return nil
}

// SearchExact returns the k nearest chunks by cosine distance.
func (ix *Index) SearchExact(ctx context.Context, query string, k int) ([]driven.Hit, error) {
	hits, err := ix.nearest(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Search narrows a FetchK pool to K hits by maximal marginal
// relevance, trading relevance against distinctiveness at Lambda.
func (ix *Index) Search(ctx context.Context, query string, params driven.SearchParams) ([]driven.Hit, error) {
	qv, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	pool := ix.scoreAll(qv)
	if params.FetchK > 0 && len(pool) > params.FetchK {
		pool = pool[:params.FetchK]
	}

	k := params.K
	if k <= 0 || k > len(pool) {
		k = len(pool)
	}

	return mmrSelect(pool, k, params.Lambda), nil
}

// nearest embeds the query and returns all entries sorted by distance.
func (ix *Index) nearest(ctx context.Context, query string) ([]driven.Hit, error) {
	qv, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return toHits(ix.scoreAll(qv)), nil
}

type scored struct {
	entry    entry
	distance float64
}

// scoreAll computes cosine distances for every entry, sorted nearest
// first.
func (ix *Index) scoreAll(qv []float32) []scored {
	ix.mu.RLock()
	pool := make([]scored, 0, len(ix.entries))
	for _, e := range ix.entries {
		pool = append(pool, scored{entry: e, distance: 1 - cosine(qv, e.vector)})
	}
	ix.mu.RUnlock()

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].distance != pool[j].distance {
			return pool[i].distance < pool[j].distance
		}
		return pool[i].entry.chunk.ID < pool[j].entry.chunk.ID
	})
	return pool
}

// mmrSelect greedily picks k hits maximizing
// lambda*relevance - (1-lambda)*redundancy.
func mmrSelect(pool []scored, k int, lambda float64) []driven.Hit {
	selected := make([]scored, 0, k)
	remaining := append([]scored(nil), pool...)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)

		for i, cand := range remaining {
			relevance := 1 - cand.distance

			redundancy := 0.0
			for _, s := range selected {
				if sim := cosine(cand.entry.vector, s.entry.vector); sim > redundancy {
					redundancy = sim
				}
			}

			score := lambda*relevance - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return toHits(selected)
}

func toHits(pool []scored) []driven.Hit {
	hits := make([]driven.Hit, len(pool))
	for i, s := range pool {
		hits[i] = driven.Hit{Chunk: s.entry.chunk, Distance: s.distance}
	}
	return hits
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
