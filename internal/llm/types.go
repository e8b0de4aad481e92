package llm

// Role represents the role of a message sender in a conversation.
type Role string

// RoleUser is the only role the bridge sends.
const RoleUser Role = "user"

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse contains the result of an LLM completion request.
// Content is the first choice's text, untrimmed; it is empty when the
// service returned no choices.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// SingleTurn builds a request carrying one user message.
func SingleTurn(model, prompt string, maxTokens int, temperature float64) CompletionRequest {
	return CompletionRequest{
		Model:       model,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}
