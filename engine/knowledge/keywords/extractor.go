package keywords

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/geoassist/geoassist/engine/llm"
	"github.com/geoassist/geoassist/pkg/logger"
)

// Extractor turns a query into a small set of salient search terms.
type Extractor interface {
	Extract(ctx context.Context, query string) ([]string, error)
}

const maxKeywords = 8

const extractionPrompt = `Extract the most important keywords from this query for document search. Focus on:
- Proper nouns (names, software, standards)
- Technical terms and jargon
- Key concepts that define user intention
- Domain-specific terminology

Query: %q

Return only a JSON list of keywords (truly important ones):
["keyword1", "keyword2", ...]

Keywords:`

// LLMExtractor asks a language model for keywords and normalizes the result.
type LLMExtractor struct {
	client llm.Client
}

func NewLLMExtractor(client llm.Client) (*LLMExtractor, error) {
	if client == nil {
		return nil, errors.New("keywords: llm client is required")
	}
	return &LLMExtractor{client: client}, nil
}

func (e *LLMExtractor) Extract(ctx context.Context, query string) ([]string, error) {
	resp, err := e.client.GenerateContent(ctx, &llm.Request{
		Messages: []llm.Message{{Role: "user", Content: fmt.Sprintf(extractionPrompt, query)}},
	})
	if err != nil {
		return nil, fmt.Errorf("keywords: extraction call failed: %w", err)
	}
	keywords, err := parseKeywords(resp.Content)
	if err != nil {
		logger.FromContext(ctx).Warn("Keyword extraction returned unparseable output", "error", err)
		return nil, nil
	}
	return keywords, nil
}

// parseKeywords tolerates markdown code fences around the JSON list and
// normalizes entries to lowercase, dropping anything shorter than two
// characters.
func parseKeywords(content string) ([]string, error) {
	content = stripCodeFence(strings.TrimSpace(content))
	var raw []string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("keywords: invalid JSON list: %w", err)
	}
	keywords := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if len(kw) > 1 {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords, nil
}

func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
