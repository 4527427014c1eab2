package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/archivist-labs/docqa/internal/adapters/driven/runlog/file"
	searchmem "github.com/archivist-labs/docqa/internal/adapters/driven/search/memory"
	"github.com/archivist-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
	"github.com/archivist-labs/docqa/internal/core/services"
	"github.com/archivist-labs/docqa/internal/logger"
)

// buildIndex opens the chunk store and rebuilds the in-process vector
// index from every ingested source. Chunk embeddings are computed on
// startup; CLI invocations are short lived, so nothing is cached
// between runs.
func buildIndex(ctx context.Context) (*sqlite.Store, *searchmem.Index, error) {
	if newEmbedder == nil {
		return nil, nil, errors.New("embedding service not configured")
	}

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening chunk store: %w", err)
	}

	embedder, err := newEmbedder()
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("creating embedding service: %w", err)
	}

	index := searchmem.New(embedder)

	sources, err := store.Sources(ctx)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("listing sources: %w", err)
	}
	if len(sources) == 0 {
		store.Close()
		return nil, nil, errors.New("no documents ingested; run `docqa ingest` first")
	}

	for _, src := range sources {
		chunks, err := store.ChunksBySource(ctx, src.Filename)
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("loading %s: %w", src.Filename, err)
		}
		if err := index.IndexChunks(ctx, chunks); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("indexing %s: %w", src.Filename, err)
		}
	}
	logger.Info("indexed %d chunks from %d sources", index.Len(), len(sources))

	return store, index, nil
}

// buildPipeline assembles the full query service on top of a built
// index.
func buildPipeline(index *searchmem.Index) (*services.Pipeline, error) {
	if newGenerator == nil {
		return nil, errors.New("generator not configured")
	}

	guard, err := services.NewGuard(pol)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator()
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	runLog, err := file.New(filepath.Join("logs", "runs"))
	if err != nil {
		logger.Warn("run log disabled: %v", err)
		runLog = nil
	}

	pipeline := services.NewPipeline(
		guard,
		services.NewRetriever(index, guard, pol),
		services.NewGate(index, pol),
		generator,
		services.NewMemory(pol),
		runLogOrNil(runLog),
		pol,
	)
	return pipeline, nil
}

// runLogOrNil keeps the typed-nil interface pitfall out of the
// pipeline.
func runLogOrNil(l *file.RunLog) driven.RunLog {
	if l == nil {
		return nil
	}
	return l
}
