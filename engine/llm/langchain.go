package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/geoassist/geoassist/pkg/config"
)

// LangChainClient adapts a langchaingo model to the Client interface.
type LangChainClient struct {
	model llms.Model
}

// NewLangChainClient builds a provider-backed client from configuration.
func NewLangChainClient(ctx context.Context, cfg *config.LLMConfig) (*LangChainClient, error) {
	if cfg == nil {
		return nil, errors.New("llm: config is required")
	}
	model, err := createModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create %s model: %w", cfg.Provider, err)
	}
	return &LangChainClient{model: model}, nil
}

func createModel(ctx context.Context, cfg *config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		return openai.New(opts...)
	case "googleai":
		opts := []googleai.Option{googleai.WithDefaultModel(cfg.Model)}
		if cfg.APIKey != "" {
			opts = append(opts, googleai.WithAPIKey(cfg.APIKey))
		}
		return googleai.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func (c *LangChainClient) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("llm: request is required")
	}
	messages := convertMessages(req)
	options := buildCallOptions(req)
	response, err := c.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return nil, fmt.Errorf("llm: generation failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("llm: model returned no choices")
	}
	return &Response{Content: response.Choices[0].Content}, nil
}

func convertMessages(req *Request) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	for _, msg := range req.Messages {
		messages = append(messages, llms.TextParts(mapRole(msg.Role), msg.Content))
	}
	return messages
}

func mapRole(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func buildCallOptions(req *Request) []llms.CallOption {
	var options []llms.CallOption
	if req.Options.Temperature > 0 {
		options = append(options, llms.WithTemperature(req.Options.Temperature))
	}
	if req.Options.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(req.Options.MaxTokens))
	}
	if req.Options.UseJSONMode {
		options = append(options, llms.WithJSONMode())
	}
	return options
}
