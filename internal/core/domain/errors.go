package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSearchUnavailable indicates the similarity-search capability
	// is not configured. Retrieval cannot run without it.
	ErrSearchUnavailable = errors.New("similarity search unavailable")

	// ErrGeneratorUnavailable indicates the generation capability is
	// not configured. Questions can be classified and gated but not
	// answered.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. The in-memory similarity index is disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
