// Package llm provides the chat completion client used by the REPL.
package llm

import "context"

// Role identifies the author of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles accepted by the API.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// LLMClient is the interface the chat session talks to.
type LLMClient interface {
	// Generate returns the model's reply to the given conversation.
	Generate(ctx context.Context, messages []Message) (string, error)
	// Model returns the model identifier sent with each request.
	Model() string
	// SetModel changes the model identifier for subsequent requests.
	SetModel(model string)
}
