package retriever

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/geoassist/geoassist/engine/core"
	"github.com/geoassist/geoassist/engine/knowledge/docstore"
	"github.com/geoassist/geoassist/engine/knowledge/embedder"
	"github.com/geoassist/geoassist/engine/knowledge/keywords"
	"github.com/geoassist/geoassist/engine/knowledge/vectordb"
	"github.com/geoassist/geoassist/pkg/logger"
)

// ErrAllBranchesFailed is returned when neither search branch produced
// results because both errored. Callers degrade to an empty citation list.
var ErrAllBranchesFailed = errors.New("retriever: all search branches failed")

// Config tunes hybrid retrieval. Zero values fall back to the calibrated
// defaults.
type Config struct {
	TopK                int
	SimilarityThreshold float64
	MinKeywords         int
	HybridVectorChunks  int
	VectorMaxChunks     int
	DedupPrefix         int
	SearchTimeout       time.Duration
}

const (
	defaultTopK               = 3
	defaultSimilarityThresh   = 0.1
	defaultMinKeywords        = 3
	defaultHybridVectorChunks = 4
	defaultDedupPrefix        = 100
	defaultSearchTimeout      = 15 * time.Second
	searchRetryBackoff        = 200 * time.Millisecond
)

func (c *Config) normalize() {
	if c.TopK <= 0 {
		c.TopK = defaultTopK
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = defaultSimilarityThresh
	}
	if c.MinKeywords <= 0 {
		c.MinKeywords = defaultMinKeywords
	}
	if c.HybridVectorChunks <= 0 {
		c.HybridVectorChunks = defaultHybridVectorChunks
	}
	if c.VectorMaxChunks <= 0 {
		c.VectorMaxChunks = 2 * c.TopK
	}
	if c.DedupPrefix <= 0 {
		c.DedupPrefix = defaultDedupPrefix
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = defaultSearchTimeout
	}
}

// Service fuses vector and keyword search into one ranked, deduplicated,
// cited result set.
type Service struct {
	embedder  embedder.Embedder
	store     vectordb.Store
	docs      docstore.Searcher
	extractor keywords.Extractor
	cfg       Config
}

func NewService(
	emb embedder.Embedder,
	store vectordb.Store,
	docs docstore.Searcher,
	extractor keywords.Extractor,
	cfg Config,
) (*Service, error) {
	if emb == nil {
		return nil, errors.New("retriever: embedder is required")
	}
	if store == nil {
		return nil, errors.New("retriever: vector store is required")
	}
	if docs == nil {
		return nil, errors.New("retriever: document searcher is required")
	}
	if extractor == nil {
		return nil, errors.New("retriever: keyword extractor is required")
	}
	cfg.normalize()
	return &Service{embedder: emb, store: store, docs: docs, extractor: extractor, cfg: cfg}, nil
}

// Retrieve returns up to TopK citations for the query. Retrieval degrades to
// whichever branch succeeded; ErrAllBranchesFailed means neither did. The
// trace, when non-nil, receives one record per retrieval sub-step.
func (s *Service) Retrieve(ctx context.Context, query string, trace *core.Trace) ([]core.Citation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("retriever: query is required")
	}
	log := logger.FromContext(ctx)
	log.Info("Retrieval started", "query_length", len(query))

	terms := s.extractKeywords(ctx, query, trace)
	if len(terms) < s.cfg.MinKeywords {
		log.Debug("Keyword yield below threshold, using vector-only mode",
			"keywords", len(terms), "threshold", s.cfg.MinKeywords)
		return s.vectorOnly(ctx, query, trace)
	}
	return s.hybrid(ctx, query, terms, trace)
}

// extractKeywords never fails retrieval: an extractor error just forces
// vector-only mode.
func (s *Service) extractKeywords(ctx context.Context, query string, trace *core.Trace) []string {
	start := time.Now()
	terms, err := s.extractor.Extract(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Warn("Keyword extraction failed, degrading to vector-only", "error", err)
		record(trace, "keyword_extraction", start, core.StepDegraded, err.Error())
		return nil
	}
	record(trace, "keyword_extraction", start, core.StepOK, "")
	return terms
}

func (s *Service) vectorOnly(ctx context.Context, query string, trace *core.Trace) ([]core.Citation, error) {
	contexts, err := s.vectorSearch(ctx, query, s.cfg.VectorMaxChunks, trace)
	if err != nil {
		return nil, ErrAllBranchesFailed
	}
	return s.finalize(contexts, nil), nil
}

func (s *Service) hybrid(ctx context.Context, query string, terms []string, trace *core.Trace) ([]core.Citation, error) {
	var (
		vectorContexts  []core.Context
		keywordContexts []core.Context
		vectorErr       error
		keywordErr      error
	)
	// Both branches run to completion regardless of the other's outcome;
	// errors are captured per branch, never returned to the group.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		vectorContexts, vectorErr = s.vectorSearch(groupCtx, query, s.cfg.HybridVectorChunks, trace)
		return nil
	})
	group.Go(func() error {
		keywordContexts, keywordErr = s.keywordSearch(groupCtx, terms, s.cfg.TopK, trace)
		return nil
	})
	_ = group.Wait()

	if vectorErr != nil && keywordErr != nil {
		return nil, ErrAllBranchesFailed
	}
	if vectorErr != nil || keywordErr != nil {
		logger.FromContext(ctx).Warn("Hybrid retrieval degraded to a single branch",
			"vector_error", vectorErr, "keyword_error", keywordErr)
	}
	return s.finalize(vectorContexts, keywordContexts), nil
}

func (s *Service) vectorSearch(ctx context.Context, query string, limit int, trace *core.Trace) ([]core.Context, error) {
	start := time.Now()
	var matches []vectordb.Match
	err := s.withRetry(ctx, func(callCtx context.Context) error {
		vector, embedErr := s.embedder.EmbedQuery(callCtx, query)
		if embedErr != nil {
			return embedErr
		}
		var searchErr error
		matches, searchErr = s.store.Search(callCtx, vector, vectordb.SearchOptions{
			TopK:     limit,
			MinScore: s.cfg.SimilarityThreshold,
		})
		return searchErr
	})
	if err != nil {
		record(trace, "vector_search", start, core.StepFailed, err.Error())
		return nil, err
	}
	contexts := make([]core.Context, 0, len(matches))
	for i := range matches {
		contexts = append(contexts, matchToContext(&matches[i]))
	}
	record(trace, "vector_search", start, core.StepOK, "")
	return contexts, nil
}

func (s *Service) keywordSearch(ctx context.Context, terms []string, limit int, trace *core.Trace) ([]core.Context, error) {
	start := time.Now()
	var results []docstore.Result
	err := s.withRetry(ctx, func(callCtx context.Context) error {
		var searchErr error
		results, searchErr = s.docs.Search(callCtx, terms, limit)
		return searchErr
	})
	if err != nil {
		record(trace, "keyword_search", start, core.StepFailed, err.Error())
		return nil, err
	}
	contexts := make([]core.Context, 0, len(results))
	for i := range results {
		contexts = append(contexts, resultToContext(&results[i]))
	}
	record(trace, "keyword_search", start, core.StepOK, "")
	return contexts, nil
}

// withRetry wraps one external call with the search timeout and exactly one
// retry. A second failure surfaces to the caller.
func (s *Service) withRetry(ctx context.Context, call func(context.Context) error) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(searchRetryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
		defer cancel()
		if err := call(callCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// finalize merges both branches into the final citation list: deterministic
// vector-first dedup, raw-score descending rank, similarity filter on vector
// scores and truncation to TopK. Keyword scores pass the filter untouched
// since they live on a different scale.
func (s *Service) finalize(vectorContexts, keywordContexts []core.Context) []core.Citation {
	merged := s.dedup(vectorContexts, keywordContexts)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RawScore > merged[j].RawScore
	})
	citations := make([]core.Citation, 0, s.cfg.TopK)
	for i := range merged {
		if len(citations) >= s.cfg.TopK {
			break
		}
		if merged[i].Origin == core.OriginVector && merged[i].RawScore < s.cfg.SimilarityThreshold {
			continue
		}
		citations = append(citations, core.Citation{
			SourceName:      merged[i].SourceName,
			PageIndex:       merged[i].PageIndex,
			Content:         merged[i].Text,
			ConfidenceScore: merged[i].RawScore,
		})
	}
	return citations
}

// dedup keys each context by a fixed-length content prefix. Vector-origin
// contexts are processed first so that on a key collision the vector entry
// wins; this ordering is independent of which branch returned first.
func (s *Service) dedup(vectorContexts, keywordContexts []core.Context) []core.Context {
	seen := make(map[string]struct{}, len(vectorContexts)+len(keywordContexts))
	merged := make([]core.Context, 0, len(vectorContexts)+len(keywordContexts))
	for _, group := range [][]core.Context{vectorContexts, keywordContexts} {
		for _, c := range group {
			key := dedupKey(c.Text, s.cfg.DedupPrefix)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

func dedupKey(text string, prefix int) string {
	if len(text) > prefix {
		return text[:prefix]
	}
	return text
}

func matchToContext(match *vectordb.Match) core.Context {
	return core.Context{
		SourceName: metadataSource(match.Metadata),
		PageIndex:  metadataPageIndex(match.Metadata),
		Text:       match.Text,
		RawScore:   match.Score,
		Origin:     core.OriginVector,
	}
}

func resultToContext(result *docstore.Result) core.Context {
	return core.Context{
		SourceName: metadataSource(result.Metadata),
		PageIndex:  metadataPageIndex(result.Metadata),
		Text:       result.Text,
		RawScore:   result.Score,
		Origin:     core.OriginKeyword,
	}
}

func metadataSource(metadata map[string]any) string {
	if raw, ok := metadata["source"].(string); ok && raw != "" {
		return raw
	}
	return "unknown"
}

func metadataPageIndex(metadata map[string]any) *int {
	switch v := metadata["page_index"].(type) {
	case int:
		return &v
	case int32:
		page := int(v)
		return &page
	case int64:
		page := int(v)
		return &page
	case float64:
		page := int(v)
		return &page
	}
	return nil
}

func record(trace *core.Trace, name string, start time.Time, status core.StepStatus, detail string) {
	if trace == nil {
		return
	}
	trace.Append(name, start, status, detail)
}
