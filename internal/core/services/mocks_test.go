package services

import (
	"context"
	"sync"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
)

// mockSearcher returns canned hits and records the queries it saw.
type mockSearcher struct {
	mu           sync.Mutex
	hits         []driven.Hit
	exactHits    map[string][]driven.Hit
	searchErr    error
	exactErr     error
	queries      []string
	exactQueries []string
}

func (m *mockSearcher) Search(_ context.Context, query string, _ driven.SearchParams) ([]driven.Hit, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockSearcher) SearchExact(_ context.Context, query string, _ int) ([]driven.Hit, error) {
	m.mu.Lock()
	m.exactQueries = append(m.exactQueries, query)
	m.mu.Unlock()
	if m.exactErr != nil {
		return nil, m.exactErr
	}
	if m.exactHits != nil {
		return m.exactHits[query], nil
	}
	return nil, nil
}

// mockGenerator returns a fixed completion and counts calls.
type mockGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (m *mockGenerator) Complete(_ context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) ModelName() string { return "mock-model" }

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockRunLog captures recorded runs.
type mockRunLog struct {
	mu      sync.Mutex
	records []driven.RunRecord
	err     error
}

func (m *mockRunLog) Record(_ context.Context, rec driven.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func hit(filename, text string, distance float64) driven.Hit {
	return driven.Hit{
		Chunk: domain.Chunk{
			ID:     filename + "#" + text[:min(8, len(text))],
			Text:   text,
			Source: domain.SourceInfo{Filename: filename},
		},
		Distance: distance,
	}
}
