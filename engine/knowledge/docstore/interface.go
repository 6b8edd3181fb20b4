package docstore

import (
	"context"
	"time"
)

// Result is one full-text search hit. Score is the backend's lexical
// relevance value and is not bounded to [0,1].
type Result struct {
	ID       string
	Score    float64
	Text     string
	Metadata map[string]any
}

// Searcher runs full-text search against the document index. The answering
// core only reads; ingestion tooling owns writes.
type Searcher interface {
	Search(ctx context.Context, terms []string, k int) ([]Result, error)
	Close(ctx context.Context) error
}

// Config captures connection details for the document store.
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}
