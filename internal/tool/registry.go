package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joss/pizzaiolo/internal/logging"
)

// Registry holds tool definitions and dispatches calls to their invokers.
// Registration happens during startup; once a registry is handed to an
// agent loop it is read-only for the remainder of that loop's lifetime.
type Registry struct {
	order    []string
	invokers map[string]Invoker
	log      *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		invokers: make(map[string]Invoker),
		log:      logging.New("registry"),
	}
}

// Register adds a tool. Fails with ErrDuplicateTool on a name collision,
// leaving the registry unchanged.
func (r *Registry) Register(inv Invoker) error {
	name := inv.Definition().Name
	if _, exists := r.invokers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.invokers[name] = inv
	r.order = append(r.order, name)
	return nil
}

// Lookup finds a tool by name. Fails with ErrUnknownTool if absent.
func (r *Registry) Lookup(name string) (Invoker, error) {
	inv, ok := r.invokers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return inv, nil
}

// List returns all definitions in registration order, for the capability
// layer to advertise available tools.
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.invokers[name].Definition())
	}
	return defs
}

// Call validates the request's arguments against the tool's input schema
// and, only if they pass, runs the invoker. Validation failures and
// execution failures come back as a failed CallResult; the returned error
// is non-nil only for an unknown tool name.
func (r *Registry) Call(ctx context.Context, req CallRequest) (CallResult, error) {
	inv, err := r.Lookup(req.Tool)
	if err != nil {
		return CallResult{}, err
	}
	def := inv.Definition()
	log := r.log.WithTool(req.Tool)

	if verr := ValidateArgs(def, req.Args); verr != nil {
		log.Warn("validation_failed", map[string]any{"fields": len(verr.Fields)}, verr)
		return CallResult{Tool: req.Tool, ErrorDetail: verr.Error()}, nil
	}

	start := time.Now()
	payload, err := inv.Invoke(ctx, req.Args)
	if err != nil {
		log.Warn("invoke_failed", nil, err)
		var ee *ExecutionError
		return CallResult{
			Tool:        req.Tool,
			ErrorDetail: err.Error(),
			Transient:   errors.As(err, &ee),
		}, nil
	}

	log.TimedEvent("invoke", start, nil)
	return CallResult{Tool: req.Tool, Success: true, Payload: payload}, nil
}
