package tool

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common tool errors.
var (
	// ErrDuplicateTool indicates a name collision during registration.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool indicates a lookup for an unregistered tool.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrUnsupportedSchema indicates an operation uses schema features the
	// generator does not map (anyOf/oneOf or a non-primitive type).
	ErrUnsupportedSchema = errors.New("unsupported schema")
)

// UnsupportedSchemaError wraps ErrUnsupportedSchema with the failing
// operation and field. Fatal for that one operation only.
type UnsupportedSchemaError struct {
	Operation string
	Field     string
	Reason    string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported schema in %s.%s: %s", e.Operation, e.Field, e.Reason)
}

func (e *UnsupportedSchemaError) Unwrap() error {
	return ErrUnsupportedSchema
}

// FieldError describes one argument validation failure.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError reports every argument mismatch for one call.
// Recoverable: fed back into the transcript so the capability layer
// can retry with corrected arguments. The call is never attempted.
type ValidationError struct {
	Tool   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return fmt.Sprintf("invalid arguments for %s (%s)", e.Tool, strings.Join(parts, "; "))
}

// sorted orders field errors by name so messages are stable.
func (e *ValidationError) sorted() *ValidationError {
	sort.Slice(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
	return e
}

// ExecutionError normalizes network failures, non-2xx statuses and
// undecodable responses. Recoverable: surfaced as a failed tool result,
// never a process failure. HTTPStatus is 0 when the call never reached
// the server.
type ExecutionError struct {
	Tool       string
	HTTPStatus int
	Message    string
}

func (e *ExecutionError) Error() string {
	if e.HTTPStatus == 0 {
		return fmt.Sprintf("%s: %s", e.Tool, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Tool, e.HTTPStatus, e.Message)
}
