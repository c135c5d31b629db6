package openapi

import (
	"sort"

	"github.com/joss/pizzaiolo/internal/logging"
)

// Location says where an argument travels in the HTTP request.
type Location string

const (
	LocationQuery Location = "query"
	LocationPath  Location = "path"
	LocationBody  Location = "body"
)

// Param is one normalized operation parameter.
type Param struct {
	Name        string
	Location    Location
	Schema      *Schema // fully resolved, never carries a $ref
	Required    bool
	Description string
}

// Operation is a normalized descriptor for one (path, method) pair.
// Immutable after extraction.
type Operation struct {
	ID       string
	Method   string
	Path     string
	Summary  string
	Params   []Param
	Response *Schema // declared success response schema, may be nil
}

// methodOrder fixes the per-path method ordering so extraction is
// deterministic regardless of Go map iteration.
var methodOrder = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

func (p PathItem) operation(method string) *OperationObject {
	switch method {
	case "GET":
		return p.Get
	case "POST":
		return p.Post
	case "PUT":
		return p.Put
	case "DELETE":
		return p.Delete
	case "PATCH":
		return p.Patch
	}
	return nil
}

// Extract normalizes every operation in the document into an ordered
// sequence of descriptors. Paths are visited lexicographically, methods
// in fixed verb order. An operation without an operationId is a
// SpecError: tools must be nameable.
func Extract(doc *Document) ([]Operation, error) {
	log := logging.New("extractor")

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var ops []Operation
	for _, path := range paths {
		item := doc.Paths[path]
		for _, method := range methodOrder {
			obj := item.operation(method)
			if obj == nil {
				continue
			}

			op, err := extractOperation(doc, path, method, obj)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}

	log.Info("extracted_operations", map[string]any{
		"title": doc.Info.Title,
		"count": len(ops),
	})
	return ops, nil
}

func extractOperation(doc *Document, path, method string, obj *OperationObject) (Operation, error) {
	if obj.OperationID == "" {
		return Operation{}, &SpecError{Reason: "operation has no operationId", Path: path, Method: method}
	}

	op := Operation{
		ID:      obj.OperationID,
		Method:  method,
		Path:    path,
		Summary: obj.Summary,
	}

	for _, p := range obj.Parameters {
		schema := p.Schema
		if schema == nil {
			schema = &Schema{Type: "string"}
		}
		resolved, err := doc.resolve(schema)
		if err != nil {
			return Operation{}, annotate(err, path, method)
		}

		loc := LocationQuery
		if p.In == "path" {
			loc = LocationPath
		}
		op.Params = append(op.Params, Param{
			Name:        p.Name,
			Location:    loc,
			Schema:      resolved,
			Required:    p.Required, // absent means not required
			Description: p.Description,
		})
	}

	bodyParams, err := extractBody(doc, obj.RequestBody)
	if err != nil {
		return Operation{}, annotate(err, path, method)
	}
	op.Params = append(op.Params, bodyParams...)

	resp, err := extractResponse(doc, obj.Responses)
	if err != nil {
		return Operation{}, annotate(err, path, method)
	}
	op.Response = resp

	return op, nil
}

// extractBody flattens the JSON request body's properties into body-located
// parameters, the same shape the original parameters take. Property order
// follows sorted property names for determinism.
func extractBody(doc *Document, body *RequestBody) ([]Param, error) {
	if body == nil {
		return nil, nil
	}
	media, ok := body.Content["application/json"]
	if !ok || media.Schema == nil {
		return nil, nil
	}

	schema, err := doc.resolve(media.Schema)
	if err != nil {
		return nil, err
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]Param, 0, len(names))
	for _, name := range names {
		prop, err := doc.resolve(schema.Properties[name])
		if err != nil {
			return nil, err
		}
		params = append(params, Param{
			Name:        name,
			Location:    LocationBody,
			Schema:      prop,
			Required:    required[name],
			Description: prop.Description,
		})
	}
	return params, nil
}

// extractResponse picks the declared success response schema, preferring
// 200, then 201, then any other 2xx code.
func extractResponse(doc *Document, responses Responses) (*Schema, error) {
	for _, code := range []string{"200", "201"} {
		if resp, ok := responses[code]; ok {
			return resolveResponse(doc, resp)
		}
	}
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if len(code) == 3 && code[0] == '2' {
			return resolveResponse(doc, responses[code])
		}
	}
	return nil, nil
}

func resolveResponse(doc *Document, resp ResponseObject) (*Schema, error) {
	media, ok := resp.Content["application/json"]
	if !ok || media.Schema == nil {
		return nil, nil
	}
	return doc.resolve(media.Schema)
}

func annotate(err error, path, method string) error {
	if se, ok := err.(*SpecError); ok && se.Path == "" {
		return &SpecError{Reason: se.Reason, Path: path, Method: method}
	}
	return err
}
