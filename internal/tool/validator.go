package tool

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// ValidateArgs checks an argument object against a tool's input schema:
// every required field present, every field's runtime type matching its
// declared type, no unknown fields. A closed set of primitive checkers,
// not general JSON-Schema compliance.
func ValidateArgs(def Definition, args map[string]any) *ValidationError {
	verr := &ValidationError{Tool: def.Name}

	names := make([]string, 0, len(def.InputSchema))
	for name := range def.InputSchema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := def.InputSchema[name]
		value, present := args[name]

		if !present {
			if spec.Required {
				verr.Fields = append(verr.Fields, FieldError{Field: name, Reason: "required field missing"})
			}
			continue
		}

		if reason := checkType(spec, value); reason != "" {
			verr.Fields = append(verr.Fields, FieldError{Field: name, Reason: reason})
		}
	}

	for name := range args {
		if _, declared := def.InputSchema[name]; !declared {
			verr.Fields = append(verr.Fields, FieldError{Field: name, Reason: "unknown field"})
		}
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr.sorted()
}

// checkType verifies one value against a declared primitive type.
// Values come from JSON decoding, so numbers arrive as float64; native
// Go ints are accepted too for calls built in-process.
func checkType(spec FieldSpec, value any) string {
	if value == nil {
		return "null is not a valid " + spec.Type
	}

	switch spec.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return typeMismatch("string", value)
		}
		if len(spec.Enum) > 0 && !enumContains(spec.Enum, s) {
			return fmt.Sprintf("%q is not one of %v", s, spec.Enum)
		}
	case "integer":
		switch n := value.(type) {
		case float64:
			if n != math.Trunc(n) {
				return fmt.Sprintf("%v is not an integer", n)
			}
		case int, int32, int64:
		default:
			return typeMismatch("integer", value)
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int32, int64:
		default:
			return typeMismatch("number", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return typeMismatch("boolean", value)
		}
	case "array":
		if reflect.ValueOf(value).Kind() != reflect.Slice {
			return typeMismatch("array", value)
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			return typeMismatch("object", value)
		}
	default:
		return fmt.Sprintf("no checker for declared type %q", spec.Type)
	}
	return ""
}

func typeMismatch(want string, got any) string {
	return fmt.Sprintf("expected %s, got %T", want, got)
}

func enumContains(enum []any, s string) bool {
	for _, e := range enum {
		if es, ok := e.(string); ok && es == s {
			return true
		}
	}
	return false
}
