package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/geoassist/geoassist/pkg/config"
)

// Embedder turns text into a dense vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Adapter wraps a langchaingo embedder and caches query embeddings so that
// repeated questions do not pay the provider round trip twice.
type Adapter struct {
	model     string
	dimension int
	impl      embeddings.Embedder
	cacheMu   sync.Mutex
	cache     *lru.Cache[string, []float32]
}

const defaultCacheSize = 512

// New constructs a provider-backed embedder adapter.
func New(ctx context.Context, cfg *config.EmbeddingConfig) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.New("embedder: config is required")
	}
	if cfg.Dimension <= 0 {
		return nil, errors.New("embedder: dimension must be greater than zero")
	}
	impl, err := buildProviderEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, []float32](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("embedder: failed to create cache: %w", err)
	}
	return &Adapter{
		model:     cfg.Model,
		dimension: cfg.Dimension,
		impl:      impl,
		cache:     cache,
	}, nil
}

func buildProviderEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithEmbeddingModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("embedder: failed to initialize openai client: %w", err)
		}
		return embeddings.NewEmbedder(client)
	case "googleai":
		opts := []googleai.Option{googleai.WithDefaultEmbeddingModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, googleai.WithAPIKey(cfg.APIKey))
		}
		client, err := googleai.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("embedder: failed to initialize googleai client: %w", err)
		}
		return embeddings.NewEmbedder(client)
	default:
		return nil, fmt.Errorf("embedder: provider %q is not supported", cfg.Provider)
	}
}

// EmbedQuery returns the embedding for text, consulting the cache first.
func (a *Adapter) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(a.model, text)
	a.cacheMu.Lock()
	if vector, ok := a.cache.Get(key); ok {
		a.cacheMu.Unlock()
		return vector, nil
	}
	a.cacheMu.Unlock()
	vector, err := a.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedder: embed query failed: %w", err)
	}
	if a.dimension > 0 && len(vector) != a.dimension {
		return nil, fmt.Errorf("embedder: expected dimension %d, got %d", a.dimension, len(vector))
	}
	a.cacheMu.Lock()
	a.cache.Add(key, vector)
	a.cacheMu.Unlock()
	return vector, nil
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
