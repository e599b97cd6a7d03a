// Package dispatch validates and executes invocation requests against the
// operation registry. The dispatcher is the last point where structured
// error information exists: every failure is rendered into a descriptive
// text payload, so the model-facing layer never sees a protocol-level fault.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/oreem-dev/pouch-agent/pkg/apperrors"
	"github.com/oreem-dev/pouch-agent/pkg/tools"
)

// Request is the model's structured request to run one operation.
type Request struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Recorder observes dispatched invocations. Implementations must tolerate
// concurrent calls; a nil Recorder disables observation.
type Recorder interface {
	ObserveInvocation(operation string, failed bool)
}

// Dispatcher resolves, validates and executes invocation requests.
type Dispatcher struct {
	registry *tools.Registry
	recorder Recorder
	log      *zap.Logger
}

// NewDispatcher creates a Dispatcher over the given registry.
func NewDispatcher(registry *tools.Registry, recorder Recorder, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		recorder: recorder,
		log:      log,
	}
}

// Dispatch runs one invocation request and returns the textual result. All
// failure kinds (unknown operation, invalid arguments, handler errors) are
// converted into text here; Dispatch never returns an error to its caller.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, tc *tools.Context) string {
	op, ok := d.registry.Lookup(req.Name)
	if !ok {
		d.log.Warn("unknown operation requested", zap.String("operation", req.Name))
		d.observe(req.Name, true)
		return fmt.Sprintf("Unknown operation %q. It is not in the tool catalogue.", req.Name)
	}

	if err := validateArguments(op.Schema, req.Arguments); err != nil {
		d.log.Warn("invalid arguments",
			zap.String("operation", req.Name),
			zap.Error(err))
		d.observe(req.Name, true)
		return fmt.Sprintf("Invalid arguments for %s: %v", req.Name, err)
	}

	result, err := op.Handler(ctx, req.Arguments, tc)
	if err != nil {
		d.log.Warn("operation failed",
			zap.String("operation", req.Name),
			zap.Error(err))
		d.observe(req.Name, true)
		return renderError(req.Name, err)
	}

	d.log.Debug("operation succeeded", zap.String("operation", req.Name))
	d.observe(req.Name, false)
	return result
}

func (d *Dispatcher) observe(operation string, failed bool) {
	if d.recorder != nil {
		d.recorder.ObserveInvocation(operation, failed)
	}
}

// validateArguments checks the argument bag against the declared schema
// before any remote call is attempted. All problems are reported together.
func validateArguments(schema tools.InputSchema, args map[string]interface{}) error {
	var result *multierror.Error

	for _, name := range schema.Required {
		if _, present := args[name]; !present {
			result = multierror.Append(result, fmt.Errorf("missing required argument %q", name))
		}
	}

	for name, value := range args {
		prop, declared := schema.Properties[name]
		if !declared {
			result = multierror.Append(result, fmt.Errorf("unexpected argument %q", name))
			continue
		}
		if err := checkKind(name, value, prop); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func checkKind(name string, value interface{}, prop tools.Property) error {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string", name)
		}
		if len(prop.Enum) > 0 && !inEnum(s, prop.Enum) {
			return fmt.Errorf("argument %q must be one of %v", name, prop.Enum)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("argument %q must be an object", name)
		}
	case "array":
		items, ok := value.([]interface{})
		if !ok {
			return fmt.Errorf("argument %q must be an array", name)
		}
		if prop.Items != nil {
			for i, item := range items {
				if err := checkKind(fmt.Sprintf("%s[%d]", name, i), item, *prop.Items); err != nil {
					return err
				}
			}
		}
	case "number":
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("argument %q must be a number", name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", name)
		}
	}
	return nil
}

func inEnum(value string, enum []string) bool {
	for _, e := range enum {
		if value == e {
			return true
		}
	}
	return false
}

// renderError turns a handler failure into the text the model (and the end
// user) will see. Upstream HTTP failures keep the literal status code and
// body so they stay greppable.
func renderError(operation string, err error) string {
	var upstream *apperrors.UpstreamHTTPError
	if errors.As(err, &upstream) {
		return fmt.Sprintf("%s failed.\nError %d: %s", operation, upstream.Status, upstream.Body)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeAuthRequired:
			return "Not logged in. Please call 'loginFrontAccounting' first."
		case apperrors.ErrCodeUndoUnavailable:
			return appErr.Message
		}
	}

	return fmt.Sprintf("%s failed: %v", operation, err)
}
