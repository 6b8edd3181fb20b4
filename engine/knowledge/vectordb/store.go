package vectordb

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	errMissingURL        = errors.New("vector_db url is required")
	errMissingCollection = errors.New("vector_db collection is required")
	errInvalidDimension  = errors.New("vector_db dimension must be greater than zero")
)

// New instantiates a vector store backed by the requested provider.
func New(ctx context.Context, cfg *Config) (Store, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderQdrant:
		return newQdrantStore(ctx, cfg)
	case ProviderMemory:
		return NewMemoryStore(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("vector_db provider %q is not supported", cfg.Provider)
	}
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("vector_db config is required")
	}
	if cfg.Dimension <= 0 {
		return errInvalidDimension
	}
	if cfg.Provider == ProviderQdrant {
		if strings.TrimSpace(cfg.URL) == "" {
			return errMissingURL
		}
		if strings.TrimSpace(cfg.Collection) == "" {
			return errMissingCollection
		}
	}
	return nil
}
