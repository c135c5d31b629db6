package tool

import (
	"fmt"
	"strings"

	"github.com/joss/pizzaiolo/internal/logging"
	"github.com/joss/pizzaiolo/internal/openapi"
)

// primitiveTypes is the closed set of OpenAPI types the generator maps.
var primitiveTypes = map[string]bool{
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
	"array":   true,
	"object":  true,
}

// Generate converts one operation descriptor into a tool definition and
// the recipe for building its HTTP request. Pure: the same descriptor
// always yields an identical definition. Composite schemas (anyOf/oneOf)
// and unknown types fail with an UnsupportedSchemaError.
func Generate(op openapi.Operation) (Definition, Recipe, error) {
	def := Definition{
		Name:        op.ID,
		Description: describe(op),
		InputSchema: make(map[string]FieldSpec, len(op.Params)),
	}
	recipe := Recipe{
		Method:       op.Method,
		PathTemplate: op.Path,
		Locations:    make(map[string]openapi.Location, len(op.Params)),
	}

	for _, param := range op.Params {
		spec, err := fieldSpec(op.ID, param)
		if err != nil {
			return Definition{}, Recipe{}, err
		}
		def.InputSchema[param.Name] = spec
		recipe.Locations[param.Name] = param.Location
	}

	return def, recipe, nil
}

func describe(op openapi.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	return fmt.Sprintf("%s %s", op.Method, op.Path)
}

func fieldSpec(operation string, param openapi.Param) (FieldSpec, error) {
	schema := param.Schema
	if schema == nil {
		schema = &openapi.Schema{Type: "string"}
	}

	if len(schema.AnyOf) > 0 || len(schema.OneOf) > 0 {
		return FieldSpec{}, &UnsupportedSchemaError{
			Operation: operation,
			Field:     param.Name,
			Reason:    "composite schemas (anyOf/oneOf) are not supported",
		}
	}

	typ := schema.Type
	if typ == "" {
		typ = "string"
	}
	if !primitiveTypes[typ] {
		return FieldSpec{}, &UnsupportedSchemaError{
			Operation: operation,
			Field:     param.Name,
			Reason:    fmt.Sprintf("type %q is not a supported primitive", typ),
		}
	}

	return FieldSpec{
		Type:        typ,
		Description: param.Description,
		Required:    param.Required,
		Enum:        schema.Enum,
	}, nil
}

// BuildRegistry generates a tool per operation and registers REST
// invokers for all of them against the given base URL. Operations with
// unsupported schemas are skipped and logged, and generation continues;
// duplicate operation ids abort with ErrDuplicateTool.
func BuildRegistry(ops []openapi.Operation, baseURL string, client HTTPClient) (*Registry, error) {
	log := logging.New("generator")
	registry := NewRegistry()

	for _, op := range ops {
		def, recipe, err := Generate(op)
		if err != nil {
			log.Warn("operation_skipped", map[string]any{
				"operation": op.ID,
				"path":      op.Path,
			}, err)
			continue
		}

		if err := registry.Register(NewRESTTool(def, recipe, baseURL, client)); err != nil {
			return nil, err
		}
	}

	log.Info("registry_built", map[string]any{
		"base_url": strings.TrimSuffix(baseURL, "/"),
		"tools":    len(registry.List()),
	})
	return registry, nil
}
