// Package conversation holds the transcript types shared by the agent
// loop and the capability layer.
package conversation

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joss/pizzaiolo/internal/tool"
)

// Kind discriminates transcript entries.
type Kind string

const (
	KindUser       Kind = "user"
	KindAgent      Kind = "agent"
	KindToolCall   Kind = "tool_call"
	KindToolResult Kind = "tool_result"
)

// Entry is one turn in a conversation. Exactly one of Text, ToolCall or
// ToolResult is populated, according to Kind.
type Entry struct {
	ID         string           `json:"id"`
	Kind       Kind             `json:"kind"`
	Text       string           `json:"text,omitempty"`
	ToolCall   *tool.CallRequest `json:"toolCall,omitempty"`
	ToolResult *tool.CallResult  `json:"toolResult,omitempty"`

	// CallID links a tool result back to the tool call entry it answers.
	// Set on both kinds so capability backends can pair them.
	CallID    string    `json:"callID,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the ordered conversation state. Owned exclusively by one
// agent loop instance and discarded at session end.
type Transcript struct {
	entries []Entry
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// AppendUser records a user message and returns the new entry.
func (t *Transcript) AppendUser(text string) Entry {
	return t.append(Entry{Kind: KindUser, Text: text})
}

// AppendAgent records an agent message.
func (t *Transcript) AppendAgent(text string) Entry {
	return t.append(Entry{Kind: KindAgent, Text: text})
}

// AppendToolCall records a requested tool invocation.
func (t *Transcript) AppendToolCall(req tool.CallRequest) Entry {
	e := Entry{Kind: KindToolCall, ToolCall: &req}
	e.CallID = nextID()
	e.ID = e.CallID
	e.Timestamp = time.Now()
	t.entries = append(t.entries, e)
	return e
}

// AppendToolResult records the outcome of a tool call, linked to the
// originating call entry.
func (t *Transcript) AppendToolResult(callID string, result tool.CallResult) Entry {
	return t.append(Entry{Kind: KindToolResult, CallID: callID, ToolResult: &result})
}

func (t *Transcript) append(e Entry) Entry {
	e.ID = nextID()
	e.Timestamp = time.Now()
	t.entries = append(t.entries, e)
	return e
}

// Replay appends a pre-built entry verbatim, keeping its ID, CallID and
// timestamp. Used to seed a fresh transcript, e.g. with a synthetic
// tool result carried over from another session.
func (t *Transcript) Replay(e Entry) {
	if e.ID == "" {
		e.ID = nextID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the transcript in order.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Last returns the most recent entry, or a zero Entry when empty.
func (t *Transcript) Last() Entry {
	if len(t.entries) == 0 {
		return Entry{}
	}
	return t.entries[len(t.entries)-1]
}

func nextID() string {
	return ulid.Make().String()
}
