// Package agent owns the conversation: it keeps the transcript, sends it
// plus the operation catalogue to the model, and routes the model's reply
// either back to the caller as text or through the dispatcher as a tool
// call.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/oreem-dev/pouch-agent/pkg/dispatch"
	"github.com/oreem-dev/pouch-agent/pkg/llm"
	"github.com/oreem-dev/pouch-agent/pkg/tools"
)

// Role is a transcript turn role.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one transcript entry.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Loop drives one conversation for the lifetime of the process. Turns are
// strictly sequential: the mutex makes sure a message is processed fully,
// including its remote round trips, before the next one starts.
//
// Tool discipline is one-shot: at most one tool call per user message, and
// its result is returned verbatim without a second model pass.
type Loop struct {
	mu         sync.Mutex
	llmClient  llm.Client
	dispatcher *dispatch.Dispatcher
	registry   *tools.Registry
	toolCtx    *tools.Context
	transcript []Turn
	log        *zap.Logger
}

// NewLoop creates a Loop. The tool context carries the session store and
// undo ledger this conversation owns.
func NewLoop(llmClient llm.Client, dispatcher *dispatch.Dispatcher, registry *tools.Registry, toolCtx *tools.Context, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		llmClient:  llmClient,
		dispatcher: dispatcher,
		registry:   registry,
		toolCtx:    toolCtx,
		log:        log,
	}
}

// HandleMessage processes one user message and returns the reply text.
func (l *Loop) HandleMessage(ctx context.Context, message string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transcript = append(l.transcript, Turn{Role: RoleUser, Content: message})

	reply, err := l.llmClient.Generate(ctx, l.messages(), l.registry.Export())
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	if reply.ToolCall == nil {
		l.transcript = append(l.transcript, Turn{Role: RoleModel, Content: reply.Text})
		return reply.Text, nil
	}

	call := reply.ToolCall
	l.log.Info("dispatching tool call",
		zap.String("operation", call.Name),
		zap.String("call_id", call.ID))

	// Keep role alternation intact: record the invocation as a model turn,
	// then the tool result as a synthetic user turn.
	l.transcript = append(l.transcript, Turn{Role: RoleModel, Content: renderCall(call)})

	result := l.dispatcher.Dispatch(ctx, dispatch.Request{
		Name:      call.Name,
		Arguments: call.Arguments,
	}, l.toolCtx)

	l.transcript = append(l.transcript, Turn{Role: RoleUser, Content: "Tool result: " + result})
	return result, nil
}

// Transcript returns a copy of the conversation so far.
func (l *Loop) Transcript() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Turn, len(l.transcript))
	copy(out, l.transcript)
	return out
}

func (l *Loop) messages() []llm.Message {
	msgs := make([]llm.Message, 0, len(l.transcript))
	for _, turn := range l.transcript {
		msgs = append(msgs, llm.Message{Role: string(turn.Role), Text: turn.Content})
	}
	return msgs
}

func renderCall(call *llm.ToolCall) string {
	args, err := json.Marshal(call.Arguments)
	if err != nil {
		args = []byte("{}")
	}
	return fmt.Sprintf("[tool call] %s(%s)", call.Name, args)
}
