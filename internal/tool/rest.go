package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/joss/pizzaiolo/internal/openapi"
)

// HTTPClient is the interface REST tools issue requests through
// (enables testing without a live server).
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

var _ HTTPClient = (*http.Client)(nil)

// Recipe fully determines how to build an HTTP request from validated
// arguments: where each argument travels and which method/path to use.
type Recipe struct {
	Method       string
	PathTemplate string
	Locations    map[string]openapi.Location
}

// RESTTool invokes one REST operation. Arguments reach it already
// validated by the registry.
type RESTTool struct {
	def     Definition
	recipe  Recipe
	baseURL string
	client  HTTPClient
}

// NewRESTTool binds a generated definition and recipe to a live endpoint.
func NewRESTTool(def Definition, recipe Recipe, baseURL string, client HTTPClient) *RESTTool {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTTool{
		def:     def,
		recipe:  recipe,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

func (t *RESTTool) Definition() Definition {
	return t.def
}

// Invoke builds the HTTP request from the recipe, issues it, and
// normalizes the outcome. Network failures, non-2xx statuses and
// non-JSON bodies all surface as *ExecutionError, never a panic.
// The request is detached from the caller's cancellation: once issued
// it runs to completion or the client's timeout, so the server never
// performs a side effect (a placed order) whose reply nobody reads.
// Callers honor cancellation between invocations instead.
func (t *RESTTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	req, err := t.buildRequest(context.WithoutCancel(ctx), args)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &ExecutionError{Tool: t.def.Name, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExecutionError{Tool: t.def.Name, HTTPStatus: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExecutionError{
			Tool:       t.def.Name,
			HTTPStatus: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	// Best-effort decode against the declared response shape: unknown
	// fields are retained, not dropped.
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ExecutionError{
			Tool:       t.def.Name,
			HTTPStatus: resp.StatusCode,
			Message:    "response is not valid JSON",
		}
	}
	return payload, nil
}

func (t *RESTTool) buildRequest(ctx context.Context, args map[string]any) (*http.Request, error) {
	path := t.recipe.PathTemplate
	query := url.Values{}
	body := map[string]any{}

	for name, value := range args {
		switch t.recipe.Locations[name] {
		case openapi.LocationPath:
			path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(stringify(value)))
		case openapi.LocationQuery:
			query.Set(name, stringify(value))
		default:
			body[name] = value
		}
	}

	target := t.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var reader io.Reader
	if len(body) > 0 {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &ExecutionError{Tool: t.def.Name, Message: fmt.Sprintf("marshal body: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, t.recipe.Method, target, reader)
	if err != nil {
		return nil, &ExecutionError{Tool: t.def.Name, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so path and query params stay clean.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// errorMessage pulls a human-readable message out of a JSON error body,
// falling back to the raw text.
func errorMessage(body []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if msg, ok := decoded[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "request failed"
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
