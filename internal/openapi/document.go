// Package openapi parses OpenAPI documents and extracts operation
// descriptors for tool generation. Only the subset needed to describe
// JSON-in/JSON-out REST operations is supported.
package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document represents a parsed OpenAPI specification.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths"`
	Components *Components         `json:"components,omitempty"`
}

// Info contains API metadata.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// Server represents an API server.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Components holds reusable schema definitions.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

// PathItem represents the operations available on a path.
type PathItem struct {
	Get    *OperationObject `json:"get,omitempty"`
	Post   *OperationObject `json:"post,omitempty"`
	Put    *OperationObject `json:"put,omitempty"`
	Delete *OperationObject `json:"delete,omitempty"`
	Patch  *OperationObject `json:"patch,omitempty"`
}

// OperationObject represents a single API operation as written in the document.
type OperationObject struct {
	OperationID string       `json:"operationId,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"`
	Responses   Responses    `json:"responses,omitempty"`
}

// Parameter represents a path or query parameter.
type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"` // query, path
	Description string  `json:"description,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Schema      *Schema `json:"schema,omitempty"`
}

// RequestBody represents a JSON request body.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// MediaType wraps the schema for one content type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Responses maps status codes to response objects.
type Responses map[string]ResponseObject

// ResponseObject represents one declared response.
type ResponseObject struct {
	Description string               `json:"description,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Schema is the subset of JSON Schema the generator understands.
// AnyOf/OneOf are carried only so the generator can reject them explicitly.
type Schema struct {
	Ref         string             `json:"$ref,omitempty"`
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Default     any                `json:"default,omitempty"`
	AnyOf       []*Schema          `json:"anyOf,omitempty"`
	OneOf       []*Schema          `json:"oneOf,omitempty"`
}

// Parse decodes an OpenAPI document from JSON.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SpecError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if len(doc.Paths) == 0 {
		return nil, &SpecError{Reason: "document has no paths"}
	}
	return &doc, nil
}

// LoadFile reads and parses an OpenAPI document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SpecError{Reason: fmt.Sprintf("read %s: %v", path, err)}
	}
	return Parse(data)
}

const refPrefix = "#/components/schemas/"

// resolve follows a local $ref chain until it reaches a concrete schema.
// Only "#/components/schemas/<name>" references are supported.
func (d *Document) resolve(s *Schema) (*Schema, error) {
	seen := map[string]bool{}
	for s != nil && s.Ref != "" {
		name := strings.TrimPrefix(s.Ref, refPrefix)
		if name == s.Ref {
			return nil, &SpecError{Reason: fmt.Sprintf("unsupported reference %q", s.Ref)}
		}
		if seen[name] {
			return nil, &SpecError{Reason: fmt.Sprintf("circular reference %q", s.Ref)}
		}
		seen[name] = true

		if d.Components == nil || d.Components.Schemas[name] == nil {
			return nil, &SpecError{Reason: fmt.Sprintf("unresolvable reference %q", s.Ref)}
		}
		s = d.Components.Schemas[name]
	}
	return s, nil
}
