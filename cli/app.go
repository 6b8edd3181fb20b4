package cli

import (
	"context"
	"fmt"

	"github.com/geoassist/geoassist/engine/agent"
	"github.com/geoassist/geoassist/engine/infra/monitoring"
	"github.com/geoassist/geoassist/engine/knowledge/docstore"
	"github.com/geoassist/geoassist/engine/knowledge/embedder"
	"github.com/geoassist/geoassist/engine/knowledge/keywords"
	"github.com/geoassist/geoassist/engine/knowledge/retriever"
	"github.com/geoassist/geoassist/engine/knowledge/vectordb"
	"github.com/geoassist/geoassist/engine/llm"
	"github.com/geoassist/geoassist/pkg/config"
)

// app bundles the wired components one command needs.
type app struct {
	cfg          *config.Config
	orchestrator *agent.Orchestrator
	metrics      *monitoring.Collector
	closers      []func(context.Context) error
}

// buildApp wires the full dependency graph from configuration.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewLangChainClient(ctx, &cfg.LLM)
	if err != nil {
		return nil, err
	}
	invoker := llm.NewInvoker(client, cfg.LLM.Timeout, cfg.LLM.MaxRetries)

	emb, err := embedder.New(ctx, &cfg.Embedding)
	if err != nil {
		return nil, err
	}
	store, err := vectordb.New(ctx, &vectordb.Config{
		Provider:   vectordb.ProviderQdrant,
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		Dimension:  cfg.Embedding.Dimension,
		Timeout:    cfg.Qdrant.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}
	docs, err := docstore.NewMongoSearcher(ctx, &docstore.Config{
		URI:        cfg.Mongo.URI,
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
		Timeout:    cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	extractor, err := keywords.NewLLMExtractor(invoker)
	if err != nil {
		return nil, err
	}
	ret, err := retriever.NewService(emb, store, docs, extractor, retriever.Config{
		TopK:                cfg.Retrieval.TopK,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		MinKeywords:         cfg.Retrieval.MinKeywords,
		HybridVectorChunks:  cfg.Retrieval.HybridVectorChunks,
		VectorMaxChunks:     cfg.Retrieval.VectorMaxChunks,
		DedupPrefix:         cfg.Retrieval.DedupPrefix,
		SearchTimeout:       cfg.Retrieval.SearchTimeout,
	})
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewCollector()
	planner, err := agent.NewPlanner(invoker, cfg.LLM.Temperature, cfg.LLM.MaxCompletionTokens)
	if err != nil {
		return nil, err
	}
	executor, err := agent.NewExecutor(ret, metrics)
	if err != nil {
		return nil, err
	}
	synthesizer, err := agent.NewSynthesizer(invoker, cfg.LLM.Temperature, cfg.LLM.MaxCompletionTokens)
	if err != nil {
		return nil, err
	}
	orchestrator, err := agent.NewOrchestrator(planner, executor, synthesizer, metrics)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:          cfg,
		orchestrator: orchestrator,
		metrics:      metrics,
		closers:      []func(context.Context) error{store.Close, docs.Close},
	}, nil
}

func (a *app) close(ctx context.Context) {
	for _, closer := range a.closers {
		_ = closer(ctx)
	}
}
