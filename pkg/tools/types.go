package tools

import (
	"context"

	"github.com/oreem-dev/pouch-agent/pkg/session"
	"github.com/oreem-dev/pouch-agent/pkg/undo"
)

// Handler executes one operation. Arguments have already been validated
// against the operation's input schema by the dispatcher. Handlers read and
// write the session and the undo ledger through the Context but never touch
// the registry.
type Handler func(ctx context.Context, args map[string]interface{}, tc *Context) (string, error)

// Context carries the per-conversation state a handler may need. It is
// passed explicitly on every invocation rather than living in process-wide
// globals, so multiple conversations could each get their own.
type Context struct {
	Session *session.Store
	Undo    *undo.Ledger
}

// Operation is one named, schema-described callable action exposed to the
// model. Operations are created once at startup and never change.
type Operation struct {
	Name        string
	Description string
	Schema      InputSchema
	Handler     Handler
}

// Definition is the catalogue entry for an operation, without its handler.
// This is what gets exported to the model-facing layer.
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Schema      InputSchema `json:"parameters"`
}
