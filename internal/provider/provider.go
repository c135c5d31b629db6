// Package provider defines the capability-layer boundary: given a
// transcript and the available tools, a backend returns either a tool
// invocation request or a final textual answer. This is the only
// contract the agent loop has with any reasoning backend.
package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/joss/pizzaiolo/internal/conversation"
	"github.com/joss/pizzaiolo/internal/tool"
)

// HTTPClient is the interface backends issue requests through
// (enables testing).
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

var _ HTTPClient = (*http.Client)(nil)

// DecisionKind discriminates the two Decision variants.
type DecisionKind string

const (
	DecisionToolCall    DecisionKind = "tool_call"
	DecisionFinalAnswer DecisionKind = "final_answer"
)

// Decision is a tagged union: exactly one of ToolCall or FinalAnswer is
// populated, never both. Built via the constructors below so the agent
// loop's transition logic stays exhaustive.
type Decision struct {
	Kind        DecisionKind
	ToolCall    *tool.CallRequest
	FinalAnswer string
}

// NewToolCall builds a tool-call decision.
func NewToolCall(req tool.CallRequest) *Decision {
	return &Decision{Kind: DecisionToolCall, ToolCall: &req}
}

// NewFinalAnswer builds a terminal-message decision.
func NewFinalAnswer(text string) *Decision {
	return &Decision{Kind: DecisionFinalAnswer, FinalAnswer: text}
}

// Request carries everything a backend sees: the full transcript plus
// the current registry listing.
type Request struct {
	Model        string
	SystemPrompt string
	Transcript   []conversation.Entry
	Tools        []tool.Definition
}

// Provider is a substitutable reasoning backend.
type Provider interface {
	ID() string
	Decide(ctx context.Context, req *Request) (*Decision, error)
}

// ErrEmptyDecision indicates the backend returned neither a tool call
// nor a final answer.
var ErrEmptyDecision = errors.New("capability backend returned neither tool call nor answer")
