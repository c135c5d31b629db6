// Package agent runs the tool-calling conversation loop: it feeds the
// transcript and tool listing to a capability backend, executes the
// tool calls the backend requests, and terminates on a final answer or
// the turn limit.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/joss/pizzaiolo/internal/conversation"
	"github.com/joss/pizzaiolo/internal/logging"
	"github.com/joss/pizzaiolo/internal/provider"
	"github.com/joss/pizzaiolo/internal/tool"
)

// State identifies where the loop is in its turn cycle.
type State string

const (
	StateAwaitingInput      State = "awaiting_input"
	StateSelectingTool      State = "selecting_tool"
	StateExecutingTool      State = "executing_tool"
	StateInterpretingResult State = "interpreting_result"
	StateDone               State = "done"
)

// TurnLimitNotice is surfaced as the loop's answer when the turn budget
// runs out before the backend produces one.
const TurnLimitNotice = "I couldn't complete this request within the allowed number of steps. Please try again or rephrase."

// EventKind tags loop observer notifications.
type EventKind string

const (
	EventStateChange EventKind = "state_change"
	EventToolCall    EventKind = "tool_call"
	EventToolResult  EventKind = "tool_result"
	EventAnswer      EventKind = "answer"
)

// Event is delivered to the optional observer after each loop step.
type Event struct {
	Kind   EventKind
	State  State
	Entry  conversation.Entry
	Answer string
}

// Config assembles a Loop. Provider and Registry are required.
type Config struct {
	Provider     provider.Provider
	Registry     *tool.Registry
	Model        string
	SystemPrompt string

	// MaxTurns bounds backend decisions per Run; <=0 selects the default.
	MaxTurns int
	// ToolRetries is how many times a call failed at the HTTP layer is
	// reissued unchanged before the failure enters the transcript.
	// Zero selects the default, negative disables retries.
	ToolRetries int

	// RecordTool names a tool whose most recent successful result the
	// loop keeps for the caller (used to pass a placed order onward).
	RecordTool string

	Logger  *logging.Logger
	OnEvent func(Event)
}

const (
	defaultMaxTurns    = 6
	defaultToolRetries = 1
)

// RecordedCall pairs a successful invocation with what it sent, so a
// downstream consumer sees both the arguments and the server's reply.
type RecordedCall struct {
	Request tool.CallRequest
	Result  tool.CallResult
}

// Outcome is what a finished Run hands back.
type Outcome struct {
	FinalAnswer  string
	TurnLimitHit bool
	Turns        int

	// Recorded is the last successful call to the configured
	// RecordTool, nil when it never succeeded.
	Recorded *RecordedCall
}

// Loop is a single-session agent. Not safe for concurrent use; each
// session owns its Loop and its transcript.
type Loop struct {
	cfg        Config
	transcript *conversation.Transcript
	state      State
	recorded   *RecordedCall
	log        *logging.Logger
}

func New(cfg Config) *Loop {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaultMaxTurns
	}
	if cfg.ToolRetries == 0 {
		cfg.ToolRetries = defaultToolRetries
	} else if cfg.ToolRetries < 0 {
		cfg.ToolRetries = 0
	}
	log := cfg.Logger
	if log == nil {
		log = logging.New("agent")
	}
	return &Loop{
		cfg:        cfg,
		transcript: conversation.New(),
		state:      StateAwaitingInput,
		log:        log,
	}
}

// Seed preloads transcript entries before the first Run. Used by the
// handoff to start a scheduling session from a synthetic tool result.
func (l *Loop) Seed(entries ...conversation.Entry) {
	for _, e := range entries {
		l.transcript.Replay(e)
	}
}

// Transcript exposes the conversation so far (a copy).
func (l *Loop) Transcript() []conversation.Entry {
	return l.transcript.Entries()
}

// State returns the loop's current state.
func (l *Loop) State() State {
	return l.state
}

// Run processes one user message to completion. It returns an Outcome
// when the backend answers or the turn limit trips, and an error only
// for backend failures or cancellation. Cancellation is honored between
// turns; an in-flight tool call is left to finish or time out first.
func (l *Loop) Run(ctx context.Context, userInput string) (*Outcome, error) {
	l.transition(StateAwaitingInput)
	entry := l.transcript.AppendUser(userInput)
	l.notify(Event{Kind: EventStateChange, State: l.state, Entry: entry})

	turns := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if turns >= l.cfg.MaxTurns {
			l.log.Warn("turn_limit", map[string]any{"max_turns": l.cfg.MaxTurns}, nil)
			e := l.transcript.AppendAgent(TurnLimitNotice)
			l.transition(StateDone)
			l.notify(Event{Kind: EventAnswer, State: l.state, Entry: e, Answer: TurnLimitNotice})
			return &Outcome{
				FinalAnswer:  TurnLimitNotice,
				TurnLimitHit: true,
				Turns:        turns,
				Recorded:     l.recorded,
			}, nil
		}

		l.transition(StateSelectingTool)
		turns++
		decision, err := l.cfg.Provider.Decide(ctx, &provider.Request{
			Model:        l.cfg.Model,
			SystemPrompt: l.cfg.SystemPrompt,
			Transcript:   l.transcript.Entries(),
			Tools:        l.cfg.Registry.List(),
		})
		if err != nil {
			return nil, fmt.Errorf("capability backend: %w", err)
		}

		switch decision.Kind {
		case provider.DecisionFinalAnswer:
			e := l.transcript.AppendAgent(decision.FinalAnswer)
			l.transition(StateDone)
			l.notify(Event{Kind: EventAnswer, State: l.state, Entry: e, Answer: decision.FinalAnswer})
			return &Outcome{FinalAnswer: decision.FinalAnswer, Turns: turns, Recorded: l.recorded}, nil

		case provider.DecisionToolCall:
			l.executeTool(ctx, *decision.ToolCall)

		default:
			return nil, fmt.Errorf("capability backend: unexpected decision kind %q", decision.Kind)
		}
	}
}

// executeTool appends the call entry, runs it (with bounded identical
// retries for HTTP-layer failures), and appends exactly one result
// entry. Unknown tools become synthetic failed results so the backend
// can re-select instead of crashing the session.
func (l *Loop) executeTool(ctx context.Context, req tool.CallRequest) {
	l.transition(StateExecutingTool)
	callEntry := l.transcript.AppendToolCall(req)
	l.notify(Event{Kind: EventToolCall, State: l.state, Entry: callEntry})

	result, err := l.callWithRetry(ctx, req)
	if err != nil {
		if errors.Is(err, tool.ErrUnknownTool) {
			l.log.WithTool(req.Tool).Warn("unknown_tool", nil, err)
			result = tool.CallResult{
				Tool:        req.Tool,
				Success:     false,
				ErrorDetail: fmt.Sprintf("no tool named %q is available", req.Tool),
			}
		} else {
			result = tool.CallResult{Tool: req.Tool, Success: false, ErrorDetail: err.Error()}
		}
	}

	if result.Success && l.cfg.RecordTool != "" && req.Tool == l.cfg.RecordTool {
		l.recorded = &RecordedCall{Request: req, Result: result}
	}

	l.transition(StateInterpretingResult)
	resEntry := l.transcript.AppendToolResult(callEntry.CallID, result)
	l.notify(Event{Kind: EventToolResult, State: l.state, Entry: resEntry})
}

func (l *Loop) callWithRetry(ctx context.Context, req tool.CallRequest) (tool.CallResult, error) {
	result, err := l.cfg.Registry.Call(ctx, req)
	if err != nil {
		return result, err
	}
	for attempt := 0; attempt < l.cfg.ToolRetries && !result.Success && result.Transient; attempt++ {
		l.log.WithTool(req.Tool).Info("tool_retry", map[string]any{"attempt": attempt + 1})
		result, err = l.cfg.Registry.Call(ctx, req)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (l *Loop) transition(s State) {
	if l.state == s {
		return
	}
	l.state = s
	l.log.Debug("state", map[string]any{"state": string(s)})
}

func (l *Loop) notify(ev Event) {
	if l.cfg.OnEvent != nil {
		l.cfg.OnEvent(ev)
	}
}
