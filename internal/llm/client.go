package llm

import "context"

// Client is the interface chat-model providers implement.
type Client interface {
	// Chat sends the conversation and tool specs, returning the
	// assistant's next message.
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (*Message, error)

	// Generate runs a single system+user exchange and returns the
	// text reply. Used for one-shot work like diary composition.
	Generate(ctx context.Context, system, prompt string) (string, error)
}
