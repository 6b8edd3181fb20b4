package llm

import "context"

// Message is one turn of a model conversation.
type Message struct {
	Role    string
	Content string
}

// Options tunes a single generation call.
type Options struct {
	Temperature float64
	MaxTokens   int
	UseJSONMode bool
}

// Request is a provider-agnostic generation request.
type Request struct {
	SystemPrompt string
	Messages     []Message
	Options      Options
}

// Response carries the generated text.
type Response struct {
	Content string
}

// Client abstracts a chat-completion provider. Implementations must be safe
// for concurrent use.
type Client interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
}
