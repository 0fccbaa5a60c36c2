package llm

import "context"

// Provider is a chat-completion backend.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of the conversation sent to the model.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for a completion.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse contains the result of a completion.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
}

// Prompt builds a request holding a single user message.
func Prompt(text string) CompletionRequest {
	return CompletionRequest{Messages: []Message{{Role: RoleUser, Content: text}}}
}
