package embedder

import (
	"context"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingImpl struct {
	vector []float32
	calls  int
}

func (c *countingImpl) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = c.vector
	}
	return out, nil
}

func (c *countingImpl) EmbedQuery(context.Context, string) ([]float32, error) {
	c.calls++
	return c.vector, nil
}

func newTestAdapter(t *testing.T, impl *countingImpl, dimension int) *Adapter {
	t.Helper()
	cache, err := lru.New[string, []float32](8)
	require.NoError(t, err)
	return &Adapter{model: "test-model", dimension: dimension, impl: impl, cache: cache}
}

func TestAdapter_EmbedQuery(t *testing.T) {
	t.Run("ShouldCacheRepeatedQueries", func(t *testing.T) {
		impl := &countingImpl{vector: []float32{1, 0, 0}}
		adapter := newTestAdapter(t, impl, 3)

		first, err := adapter.EmbedQuery(context.Background(), "what is consolidation")
		require.NoError(t, err)
		second, err := adapter.EmbedQuery(context.Background(), "what is consolidation")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, impl.calls, "second call must come from the cache")
	})

	t.Run("ShouldEmbedDistinctQueriesSeparately", func(t *testing.T) {
		impl := &countingImpl{vector: []float32{1, 0, 0}}
		adapter := newTestAdapter(t, impl, 3)

		_, err := adapter.EmbedQuery(context.Background(), "query one")
		require.NoError(t, err)
		_, err = adapter.EmbedQuery(context.Background(), "query two")
		require.NoError(t, err)
		assert.Equal(t, 2, impl.calls)
	})

	t.Run("ShouldRejectDimensionMismatch", func(t *testing.T) {
		impl := &countingImpl{vector: []float32{1, 0, 0}}
		adapter := newTestAdapter(t, impl, 3072)

		_, err := adapter.EmbedQuery(context.Background(), "q")
		assert.Error(t, err)
	})
}
