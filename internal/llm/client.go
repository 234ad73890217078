package llm

import "context"

// Client defines the interface for chat-completion backends.
type Client interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request holds one completion request. The news analyzer always sends a
// single user turn, so the interface carries a system prompt plus one
// prompt rather than a full message history.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// Response holds the completion result.
type Response struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
