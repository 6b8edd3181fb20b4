package config

import "time"

// Config is the root application configuration. Values are populated from
// defaults and GEOASSIST_* environment variables, in that order.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	LLM       LLMConfig       `koanf:"llm"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Qdrant    QdrantConfig    `koanf:"qdrant"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Retrieval RetrievalConfig `koanf:"retrieval"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"              validate:"gt=0,lte=65535"`
	QuestionMaxLength int           `koanf:"question_max_length" validate:"gt=0"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
}

type LLMConfig struct {
	Provider            string        `koanf:"provider" validate:"oneof=openai googleai"`
	Model               string        `koanf:"model"`
	APIKey              string        `koanf:"api_key"`
	Timeout             time.Duration `koanf:"timeout"`
	MaxRetries          int           `koanf:"max_retries" validate:"gte=0"`
	Temperature         float64       `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxCompletionTokens int           `koanf:"max_completion_tokens"`
}

type EmbeddingConfig struct {
	Provider  string `koanf:"provider" validate:"oneof=openai googleai"`
	Model     string `koanf:"model"`
	APIKey    string `koanf:"api_key"`
	Dimension int    `koanf:"dimension" validate:"gt=0"`
	CacheSize int    `koanf:"cache_size"`
}

type QdrantConfig struct {
	URL        string        `koanf:"url" validate:"required"`
	APIKey     string        `koanf:"api_key"`
	Collection string        `koanf:"collection" validate:"required"`
	Timeout    time.Duration `koanf:"timeout"`
}

type MongoConfig struct {
	URI        string        `koanf:"uri" validate:"required"`
	Database   string        `koanf:"database" validate:"required"`
	Collection string        `koanf:"collection" validate:"required"`
	Timeout    time.Duration `koanf:"timeout"`
}

// RetrievalConfig tunes the hybrid retrieval engine. The defaults mirror the
// values the knowledge base was calibrated against; change them together with
// the index, not independently.
type RetrievalConfig struct {
	TopK                int           `koanf:"top_k"                validate:"gt=0"`
	SimilarityThreshold float64       `koanf:"similarity_threshold" validate:"gte=0,lte=1"`
	MinKeywords         int           `koanf:"min_keywords"         validate:"gte=0"`
	HybridVectorChunks  int           `koanf:"hybrid_vector_chunks" validate:"gt=0"`
	VectorMaxChunks     int           `koanf:"vector_max_chunks"    validate:"gt=0"`
	DedupPrefix         int           `koanf:"dedup_prefix"         validate:"gt=0"`
	SearchTimeout       time.Duration `koanf:"search_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON   bool   `koanf:"json"`
	Source bool   `koanf:"source"`
}

// Default returns the built-in configuration. Environment variables override
// individual fields.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8000,
			QuestionMaxLength: 1000,
			RequestTimeout:    120 * time.Second,
		},
		LLM: LLMConfig{
			Provider:            "openai",
			Model:               "gpt-5-mini",
			Timeout:             30 * time.Second,
			MaxRetries:          1,
			Temperature:         0.1,
			MaxCompletionTokens: 3000,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-large",
			Dimension: 3072,
			CacheSize: 512,
		},
		Qdrant: QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "geotech_knowledge",
			Timeout:    10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "geotech_db",
			Collection: "documents",
			Timeout:    10 * time.Second,
		},
		Retrieval: RetrievalConfig{
			TopK:                3,
			SimilarityThreshold: 0.1,
			MinKeywords:         3,
			HybridVectorChunks:  4,
			VectorMaxChunks:     6,
			DedupPrefix:         100,
			SearchTimeout:       15 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
