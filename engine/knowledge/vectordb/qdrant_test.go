package vectordb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeQdrant(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/collections/geotech_knowledge/points/search" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"result": []map[string]any{
					{
						"id":    "a",
						"score": 0.91,
						"payload": map[string]any{
							"text":   "CPT interpretation guidance.",
							"source": "cpt_guide.md",
						},
					},
				},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestQdrantStore(t *testing.T) {
	ctx := context.Background()

	t.Run("ShouldUseConfiguredTimeout", func(t *testing.T) {
		srv, _ := newFakeQdrant(t)
		store, err := New(ctx, &Config{
			Provider:   ProviderQdrant,
			URL:        srv.URL,
			Collection: "geotech_knowledge",
			Dimension:  3,
			Timeout:    3 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, store.(*qdrantStore).client.Timeout)
	})

	t.Run("ShouldFallBackToDefaultTimeout", func(t *testing.T) {
		srv, _ := newFakeQdrant(t)
		store, err := New(ctx, &Config{
			Provider:   ProviderQdrant,
			URL:        srv.URL,
			Collection: "geotech_knowledge",
			Dimension:  3,
		})
		require.NoError(t, err)
		assert.Equal(t, qdrantDefaultTimeout, store.(*qdrantStore).client.Timeout)
	})

	t.Run("ShouldEnsureCollectionOnConstruction", func(t *testing.T) {
		srv, paths := newFakeQdrant(t)
		_, err := New(ctx, &Config{
			Provider:   ProviderQdrant,
			URL:        srv.URL,
			Collection: "geotech_knowledge",
			Dimension:  3,
		})
		require.NoError(t, err)
		require.NotEmpty(t, *paths)
		assert.Equal(t, "PUT /collections/geotech_knowledge", (*paths)[0])
	})

	t.Run("ShouldMapSearchResults", func(t *testing.T) {
		srv, _ := newFakeQdrant(t)
		store, err := New(ctx, &Config{
			Provider:   ProviderQdrant,
			URL:        srv.URL,
			Collection: "geotech_knowledge",
			Dimension:  3,
		})
		require.NoError(t, err)

		matches, err := store.Search(ctx, []float32{1, 0, 0}, SearchOptions{TopK: 3, MinScore: 0.1})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "a", matches[0].ID)
		assert.Equal(t, 0.91, matches[0].Score)
		assert.Equal(t, "CPT interpretation guidance.", matches[0].Text)
		assert.Equal(t, "cpt_guide.md", matches[0].Metadata["source"])
		assert.NotContains(t, matches[0].Metadata, "text")
	})
}
