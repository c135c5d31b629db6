package openapi

import (
	"errors"
	"fmt"
)

// ErrMalformedSpec indicates the OpenAPI document cannot produce tools.
// Fatal at startup: tool generation cannot proceed.
var ErrMalformedSpec = errors.New("malformed openapi document")

// SpecError wraps ErrMalformedSpec with the failing location.
type SpecError struct {
	Reason string
	Path   string
	Method string
}

func (e *SpecError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed spec at %s %s: %s", e.Method, e.Path, e.Reason)
	}
	return "malformed spec: " + e.Reason
}

func (e *SpecError) Unwrap() error {
	return ErrMalformedSpec
}

// IsMalformed checks if an error comes from spec parsing or extraction.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedSpec)
}
