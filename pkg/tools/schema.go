package tools

// InputSchema declares the argument shape of an operation. It marshals
// directly to the JSON Schema fragment the model-facing layers expect.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one parameter.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// ObjectSchema builds an InputSchema from properties and the list of
// required parameter names.
func ObjectSchema(props map[string]Property, required ...string) InputSchema {
	if props == nil {
		props = map[string]Property{}
	}
	return InputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// EmptySchema is the schema of an operation that takes no arguments.
func EmptySchema() InputSchema {
	return ObjectSchema(nil)
}
