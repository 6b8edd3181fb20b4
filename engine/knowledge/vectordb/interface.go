package vectordb

import (
	"context"
	"time"
)

// Provider enumerates supported vector database backends.
type Provider string

const (
	ProviderQdrant Provider = "qdrant"
	// ProviderMemory keeps embeddings in process memory; used by tests and
	// local development.
	ProviderMemory Provider = "memory"
)

// Record represents a chunk persisted to the vector store.
type Record struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]any
}

// SearchOptions controls similarity search execution.
type SearchOptions struct {
	TopK     int
	MinScore float64
}

// Match captures a similarity search result. Score is the backend's cosine
// similarity, bounded in [0,1].
type Match struct {
	ID       string
	Score    float64
	Text     string
	Metadata map[string]any
}

// Store exposes the minimal contract for ingestion and retrieval. The
// answering core only reads; Upsert exists for the ingestion tooling.
type Store interface {
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, query []float32, opts SearchOptions) ([]Match, error)
	Close(ctx context.Context) error
}

// Config captures normalized connection details for a vector database.
type Config struct {
	Provider   Provider
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}
