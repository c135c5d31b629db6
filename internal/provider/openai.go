package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/joss/pizzaiolo/internal/conversation"
	"github.com/joss/pizzaiolo/internal/tool"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI talks to any OpenAI-compatible chat-completions endpoint.
// Responses are consumed whole rather than streamed: the agent loop
// acts on complete decisions only.
type OpenAI struct {
	apiKey  string
	baseURL string
	client  HTTPClient
}

func NewOpenAI(apiKey, baseURLOverride string) *OpenAI {
	return NewOpenAIWithClient(apiKey, baseURLOverride, &http.Client{})
}

func NewOpenAIWithClient(apiKey, baseURLOverride string, client HTTPClient) *OpenAI {
	baseURL := baseURLOverride
	if baseURL == "" {
		baseURL = openaiAPIURL
	} else {
		baseURL = strings.TrimSuffix(baseURL, "/")
		if !strings.HasSuffix(baseURL, "/chat/completions") {
			if strings.HasSuffix(baseURL, "/v1") {
				baseURL += "/chat/completions"
			} else {
				baseURL += "/v1/chat/completions"
			}
		}
	}
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (o *OpenAI) ID() string { return "openai" }

type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
	Tools    []openaiTool    `json:"tools,omitempty"`
	Stream   bool            `json:"stream"`
}

type openaiMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content,omitempty"`
	ToolCalls  []openaiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openaiToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type openaiTool struct {
	Type     string `json:"type"`
	Function struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	} `json:"function"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content   string           `json:"content"`
			ToolCalls []openaiToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Decide sends the transcript and tool listing in one non-streaming
// call and maps the reply onto the Decision union. When the model emits
// both text and a tool call, the tool call wins.
func (o *OpenAI) Decide(ctx context.Context, req *Request) (*Decision, error) {
	body := openaiRequest{
		Model:    req.Model,
		Messages: o.buildMessages(req),
		Stream:   false,
	}
	for _, def := range req.Tools {
		t := openaiTool{Type: "function"}
		t.Function.Name = def.Name
		t.Function.Description = def.Description
		t.Function.Parameters = def.Parameters()
		body.Tools = append(body.Tools, t)
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(raw))
	}

	var parsed openaiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrEmptyDecision
	}

	msg := parsed.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		return o.toolCallDecision(msg.ToolCalls[0])
	}
	if msg.Content == "" {
		return nil, ErrEmptyDecision
	}
	return NewFinalAnswer(msg.Content), nil
}

func (o *OpenAI) toolCallDecision(tc openaiToolCall) (*Decision, error) {
	args := map[string]any{}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("decode tool arguments for %s: %w", tc.Function.Name, err)
		}
	}
	return NewToolCall(tool.CallRequest{Tool: tc.Function.Name, Args: args}), nil
}

// buildMessages flattens the transcript into chat-completions wire
// messages. Tool calls become assistant messages carrying tool_calls,
// tool results become role "tool" messages linked by tool_call_id.
// Chat-completions endpoints reject a "tool" message whose call id was
// never announced by an assistant message, so a result with no paired
// call in the transcript (a seeded handoff entry) gets a synthetic
// assistant tool_calls message in front of it.
func (o *OpenAI) buildMessages(req *Request) []openaiMessage {
	msgs := make([]openaiMessage, 0, len(req.Transcript)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openaiMessage{Role: "system", Content: req.SystemPrompt})
	}

	announced := make(map[string]bool)
	for _, e := range req.Transcript {
		switch e.Kind {
		case conversation.KindUser:
			msgs = append(msgs, openaiMessage{Role: "user", Content: e.Text})
		case conversation.KindAgent:
			msgs = append(msgs, openaiMessage{Role: "assistant", Content: e.Text})
		case conversation.KindToolCall:
			call := openaiToolCall{ID: e.CallID, Type: "function"}
			call.Function.Name = e.ToolCall.Tool
			call.Function.Arguments = mustJSON(e.ToolCall.Args)
			msgs = append(msgs, openaiMessage{Role: "assistant", ToolCalls: []openaiToolCall{call}})
			announced[e.CallID] = true
		case conversation.KindToolResult:
			if !announced[e.CallID] {
				call := openaiToolCall{ID: e.CallID, Type: "function"}
				call.Function.Name = e.ToolResult.Tool
				call.Function.Arguments = "{}"
				msgs = append(msgs, openaiMessage{Role: "assistant", ToolCalls: []openaiToolCall{call}})
				announced[e.CallID] = true
			}
			msgs = append(msgs, openaiMessage{
				Role:       "tool",
				Content:    renderResult(e),
				ToolCallID: e.CallID,
			})
		}
	}
	return msgs
}

// renderResult serializes a tool outcome for the model. Failures are
// reported as structured JSON so the model can recover or re-ask.
func renderResult(e conversation.Entry) string {
	res := e.ToolResult
	if res.Success {
		return mustJSON(res.Payload)
	}
	return mustJSON(map[string]any{
		"error": res.ErrorDetail,
		"tool":  res.Tool,
	})
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

var _ Provider = (*OpenAI)(nil)
