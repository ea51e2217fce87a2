package llm

import (
	"context"
	"encoding/json"
)

type Message struct {
	Role    string
	Content string
}

// ToolCall is one operation request extracted from a model reply.
// Input is the raw JSON argument object; handlers decode it into
// their own typed parameter structs.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

type Response struct {
	Content    string
	ToolCalls  []ToolCall
	StopReason string
}

// ToolDefinition declares one catalog operation for the model:
// the description drives operation selection, Parameters is the
// JSON-schema property map, Required lists mandatory parameters.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
	Required    []string
}

type Client interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition, systemPrompt string) (*Response, error)
	Name() string
}

type Router interface {
	Route(query string) Client
}
