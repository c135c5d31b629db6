// Package tool turns OpenAPI operations into invocable tool definitions
// and dispatches schema-validated calls against them.
package tool

import (
	"context"
	"sort"
)

// FieldSpec declares one argument in a tool's input schema.
type FieldSpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Enum        []any  `json:"enum,omitempty"`
}

// Definition is an invocable tool: a name, a natural-language description
// and a strict input schema. Derived deterministically from one operation.
type Definition struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	InputSchema map[string]FieldSpec `json:"inputSchema"`
}

// RequiredFields returns the required argument names in sorted order.
func (d Definition) RequiredFields() []string {
	var required []string
	for name, spec := range d.InputSchema {
		if spec.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	return required
}

// Parameters renders the input schema as a JSON-Schema object for
// function-calling capability backends.
func (d Definition) Parameters() map[string]any {
	properties := make(map[string]any, len(d.InputSchema))
	for name, spec := range d.InputSchema {
		prop := map[string]any{"type": spec.Type}
		if spec.Description != "" {
			prop["description"] = spec.Description
		}
		if len(spec.Enum) > 0 {
			prop["enum"] = spec.Enum
		}
		properties[name] = prop
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if required := d.RequiredFields(); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// CallRequest asks for one tool invocation. Produced by the capability
// layer, consumed by the registry's Call.
type CallRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// CallResult is the normalized outcome of one invocation. Immutable once
// produced; fed back into the agent loop's transcript.
type CallResult struct {
	Tool        string `json:"tool"`
	Success     bool   `json:"success"`
	Payload     any    `json:"payload,omitempty"`
	ErrorDetail string `json:"errorDetail,omitempty"`

	// Transient marks failures at the HTTP layer, which the agent loop
	// may reissue unchanged. Validation failures are never transient.
	Transient bool `json:"-"`
}

// Invoker executes validated calls for one tool. The registry validates
// arguments against Definition().InputSchema before Invoke runs, so
// implementations may trust argument shape.
type Invoker interface {
	Definition() Definition
	Invoke(ctx context.Context, args map[string]any) (any, error)
}
