package llm

import (
	"context"

	"github.com/oreem-dev/pouch-agent/pkg/tools"
)

// Message is one transcript turn as the provider sees it. Roles are "user"
// and "model".
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ToolCall is the model's structured request to run one operation.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Reply is a single model response: either free text or exactly one tool
// call. When ToolCall is set, Text may carry any preamble the model emitted
// alongside it.
type Reply struct {
	Text     string    `json:"text"`
	ToolCall *ToolCall `json:"tool_call,omitempty"`
}

// Client defines the interface for LLM clients
type Client interface {
	// Generate sends the transcript plus the exported operation catalogue
	// and receives a single reply. Blocks until the provider answers.
	Generate(ctx context.Context, messages []Message, catalogue []tools.Definition) (*Reply, error)

	// ModelName returns the name of the model being used
	ModelName() string
}
