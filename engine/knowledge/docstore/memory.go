package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Document is one entry in the in-memory searcher.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// memorySearcher scores documents by summed term frequency, mimicking a text
// index closely enough for tests. Scores are unbounded like real lexical
// relevance scores.
type memorySearcher struct {
	mu   sync.RWMutex
	docs []Document
}

// NewMemorySearcher returns an in-process Searcher seeded with the given
// documents.
func NewMemorySearcher(docs ...Document) Searcher {
	return &memorySearcher{docs: docs}
}

func (m *memorySearcher) Search(_ context.Context, terms []string, k int) ([]Result, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := make([]Result, 0, len(m.docs))
	for _, doc := range m.docs {
		lower := strings.ToLower(doc.Content)
		score := 0.0
		for _, term := range terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			score += float64(strings.Count(lower, term))
		}
		if score == 0 {
			continue
		}
		metadata := make(map[string]any, len(doc.Metadata))
		for key, val := range doc.Metadata {
			metadata[key] = val
		}
		results = append(results, Result{ID: doc.ID, Score: score, Text: doc.Content, Metadata: metadata})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].ID < results[j].ID
		}
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *memorySearcher) Close(context.Context) error {
	return nil
}
