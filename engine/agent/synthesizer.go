package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/geoassist/geoassist/engine/core"
	"github.com/geoassist/geoassist/engine/llm"
	"github.com/geoassist/geoassist/pkg/logger"
)

// Synthesizer composes the final answer text from execution results. The
// citations it returns are exactly the ones it was given; it never invents
// sources. A generation failure resolves to a deterministic fallback.
type Synthesizer struct {
	client      llm.Client
	temperature float64
	maxTokens   int
}

func NewSynthesizer(client llm.Client, temperature float64, maxTokens int) (*Synthesizer, error) {
	if client == nil {
		return nil, errors.New("agent: synthesizer llm client is required")
	}
	return &Synthesizer{client: client, temperature: temperature, maxTokens: maxTokens}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, question string, result *core.ExecutionResult) string {
	prompt := fmt.Sprintf(synthesisPrompt,
		question,
		formatCitations(result.Citations),
		formatToolResult(result),
	)
	resp, err := s.client.GenerateContent(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		Options: llm.Options{
			Temperature: s.temperature,
			MaxTokens:   s.maxTokens,
		},
	})
	if err != nil {
		logger.FromContext(ctx).Error("Answer synthesis failed, returning fallback", "error", err)
		return fallbackMessage
	}
	return resp.Content
}

func formatCitations(citations []core.Citation) string {
	if len(citations) == 0 {
		return "No relevant information found."
	}
	parts := make([]string, 0, len(citations))
	for _, c := range citations {
		header := "Source: " + c.SourceName
		if c.PageIndex != nil {
			header = fmt.Sprintf("%s (page %d)", header, *c.PageIndex)
		}
		parts = append(parts, header+"\n"+c.Content)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func formatToolResult(result *core.ExecutionResult) string {
	tr := result.ToolResult
	if tr == nil {
		return "No calculations performed."
	}
	switch tr.Status {
	case core.ToolStatusOK:
		encoded, err := json.MarshalIndent(tr.Output, "", "  ")
		if err != nil {
			return fmt.Sprintf("%s result: %v", tr.ToolName, tr.Output)
		}
		return fmt.Sprintf("%s result:\n%s", tr.ToolName, encoded)
	case core.ToolStatusInvalidInput:
		return "Calculation not performed: " + tr.Detail
	default:
		return "Calculation failed: " + tr.Detail
	}
}
