package vectordb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// memoryStore is an in-process Store used by tests and local development.
type memoryStore struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]Record
}

// NewMemoryStore returns a Store holding records in process memory.
func NewMemoryStore(dimension int) Store {
	return &memoryStore{dimension: dimension, records: make(map[string]Record)}
}

func (m *memoryStore) Upsert(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range records {
		rec := records[i]
		if len(rec.Embedding) != m.dimension {
			return fmt.Errorf("memory store: record %q dimension mismatch", rec.ID)
		}
		m.records[rec.ID] = rec
	}
	return nil
}

func (m *memoryStore) Search(_ context.Context, query []float32, opts SearchOptions) ([]Match, error) {
	if len(query) != m.dimension {
		return nil, fmt.Errorf("memory store: query dimension mismatch")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := make([]Match, 0, len(m.records))
	for _, rec := range m.records {
		score := cosineSimilarity(query, rec.Embedding)
		if score < opts.MinScore {
			continue
		}
		metadata := make(map[string]any, len(rec.Metadata))
		for k, v := range rec.Metadata {
			metadata[k] = v
		}
		matches = append(matches, Match{ID: rec.ID, Score: score, Text: rec.Text, Metadata: metadata})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Score > matches[j].Score
	})
	if opts.TopK > 0 && len(matches) > opts.TopK {
		matches = matches[:opts.TopK]
	}
	return matches, nil
}

func (m *memoryStore) Close(context.Context) error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
