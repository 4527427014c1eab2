package driven

import (
	"context"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

// ChunkStore persists assembled chunks with their provenance so a
// source file can be re-indexed idempotently. Durability guarantees
// belong to the store, not the core.
type ChunkStore interface {
	// SaveChunks replaces all chunks for the chunks' source file.
	SaveChunks(ctx context.Context, source domain.SourceInfo, chunks []domain.Chunk) error

	// ChunksBySource returns the stored chunks for a filename, in
	// insertion order.
	ChunksBySource(ctx context.Context, filename string) ([]domain.Chunk, error)

	// SourceHash returns the recorded content hash for a filename, or
	// domain.ErrNotFound when the file was never ingested.
	SourceHash(ctx context.Context, filename string) (string, error)

	// Sources lists every ingested file, ordered by filename.
	Sources(ctx context.Context) ([]domain.SourceInfo, error)

	// DeleteSource removes a file's chunks.
	DeleteSource(ctx context.Context, filename string) error

	// Close releases resources.
	Close() error
}
