// Package llm wraps the model provider behind a small client interface. The
// provider consumes the conversation transcript plus the operation catalogue
// and returns either free text or one invocation request per turn.
package llm

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/oreem-dev/pouch-agent/pkg/apperrors"
	"github.com/oreem-dev/pouch-agent/pkg/tools"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiClient implements the Client interface for Google Gemini
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.New(apperrors.ErrCodeAgentConfig, "Gemini API key is required", nil)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeAgentConfig, "failed to create Gemini client", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Generate sends the transcript and catalogue and returns a single reply.
// When the model emits several function calls only the first is kept.
func (c *GeminiClient) Generate(ctx context.Context, messages []Message, catalogue []tools.Definition) (*Reply, error) {
	contents := convertMessages(messages)
	config := buildConfig(catalogue)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeLLMCall, "Gemini API call failed", err)
	}

	return convertResponse(resp), nil
}

// ModelName returns the name of the model being used
func (c *GeminiClient) ModelName() string {
	return c.model
}

func convertMessages(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		contents = append(contents, &genai.Content{
			Role:  msg.Role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	return contents
}

func buildConfig(catalogue []tools.Definition) *genai.GenerateContentConfig {
	if len(catalogue) == 0 {
		return &genai.GenerateContentConfig{}
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(catalogue))
	for _, def := range catalogue {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  convertSchema(def.Schema),
		})
	}

	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{FunctionDeclarations: declarations},
		},
	}
}

func convertSchema(schema tools.InputSchema) *genai.Schema {
	out := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{},
		Required:   schema.Required,
	}
	for name, prop := range schema.Properties {
		out.Properties[name] = convertProperty(prop)
	}
	return out
}

func convertProperty(prop tools.Property) *genai.Schema {
	out := &genai.Schema{
		Description: prop.Description,
		Enum:        prop.Enum,
	}

	switch prop.Type {
	case "string":
		out.Type = genai.TypeString
	case "object":
		out.Type = genai.TypeObject
		out.Properties = map[string]*genai.Schema{}
	case "array":
		out.Type = genai.TypeArray
		if prop.Items != nil {
			out.Items = convertProperty(*prop.Items)
		}
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}

	return out
}

func convertResponse(resp *genai.GenerateContentResponse) *Reply {
	reply := &Reply{}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return reply
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			reply.Text += part.Text
		}

		if part.FunctionCall != nil && reply.ToolCall == nil {
			args := map[string]interface{}{}
			for k, v := range part.FunctionCall.Args {
				args[k] = v
			}

			id := part.FunctionCall.ID
			if id == "" {
				// Gemini omits call IDs; fabricate one.
				id = uuid.NewString()
			}

			reply.ToolCall = &ToolCall{
				ID:        id,
				Name:      part.FunctionCall.Name,
				Arguments: args,
			}
		}
	}

	return reply
}
