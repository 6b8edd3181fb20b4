package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("ShouldLoadDefaults", func(t *testing.T) {
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, 1000, cfg.Server.QuestionMaxLength)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, 1, cfg.LLM.MaxRetries)
		assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
		assert.Equal(t, 3072, cfg.Embedding.Dimension)
		assert.Equal(t, "geotech_knowledge", cfg.Qdrant.Collection)
		assert.Equal(t, "geotech_db", cfg.Mongo.Database)
		assert.Equal(t, 3, cfg.Retrieval.TopK)
		assert.Equal(t, 0.1, cfg.Retrieval.SimilarityThreshold)
		assert.Equal(t, 3, cfg.Retrieval.MinKeywords)
		assert.Equal(t, 100, cfg.Retrieval.DedupPrefix)
	})

	t.Run("ShouldOverrideFromEnvironment", func(t *testing.T) {
		t.Setenv("GEOASSIST_SERVER__PORT", "9090")
		t.Setenv("GEOASSIST_QDRANT__URL", "http://qdrant.internal:6333")
		t.Setenv("GEOASSIST_RETRIEVAL__TOP_K", "5")
		t.Setenv("GEOASSIST_LLM__PROVIDER", "googleai")
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "http://qdrant.internal:6333", cfg.Qdrant.URL)
		assert.Equal(t, 5, cfg.Retrieval.TopK)
		assert.Equal(t, "googleai", cfg.LLM.Provider)
	})

	t.Run("ShouldRejectInvalidValues", func(t *testing.T) {
		t.Setenv("GEOASSIST_LLM__PROVIDER", "not-a-provider")
		_, err := Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("ShouldRejectOutOfRangePort", func(t *testing.T) {
		t.Setenv("GEOASSIST_SERVER__PORT", "70000")
		_, err := Load(context.Background())
		assert.Error(t, err)
	})
}
