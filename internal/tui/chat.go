// Package tui provides the Bubble Tea interactive ordering chat.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/pizzaiolo/internal/agent"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	toolOutputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	thinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)
)

type (
	loopEventMsg agent.Event
	runDoneMsg   struct {
		outcome *agent.Outcome
		err     error
	}
)

// sharedState survives bubbletea model copies.
type sharedState struct {
	program *tea.Program
	cancel  context.CancelFunc
	output  *strings.Builder
}

// ChatModel is the interactive ordering chat.
type ChatModel struct {
	loop   *agent.Loop
	shared *sharedState

	active   bool
	ready    bool
	quitting bool
	turns    int

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	width    int
	height   int
}

// NewChatModel builds the chat around a prepared ordering loop.
func NewChatModel(loop *agent.Loop) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textarea.New()
	ti.Placeholder = "What pizza would you like? (Enter to send)"
	ti.CharLimit = 2000
	ti.SetWidth(80)
	ti.SetHeight(3)
	ti.Focus()

	return ChatModel{
		loop:    loop,
		shared:  &sharedState{output: &strings.Builder{}},
		spinner: s,
		input:   ti,
	}
}

// SetProgram wires the running program in so the loop goroutine can
// send events back into Update.
func (m *ChatModel) SetProgram(p *tea.Program) {
	m.shared.program = p
}

func (m ChatModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.active && m.shared.cancel != nil {
				m.shared.cancel()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if !m.active {
				m.quitting = true
				return m, tea.Quit
			}
		case "enter":
			return m.handleEnter()
		}

	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case loopEventMsg:
		m.renderEvent(agent.Event(msg))
		m.viewport.SetContent(m.shared.output.String())
		m.viewport.GotoBottom()
		return m, nil

	case runDoneMsg:
		m.active = false
		if msg.err != nil {
			m.shared.output.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", msg.err)) + "\n\n")
		} else if msg.outcome != nil {
			m.turns += msg.outcome.Turns
		}
		m.viewport.SetContent(m.shared.output.String())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.active {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatModel) handleEnter() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if m.active || text == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.active = true
	m.shared.output.WriteString(userStyle.Render("you") + "  " + text + "\n")
	m.shared.output.WriteString(thinkingStyle.Render("thinking...") + "\n")
	m.viewport.SetContent(m.shared.output.String())
	m.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.shared.cancel = cancel
	return m, tea.Batch(m.spinner.Tick, runLoop(ctx, m.loop, text, m.shared))
}

// runLoop executes one conversation turn off the UI thread, streaming
// loop events back through the program.
func runLoop(ctx context.Context, loop *agent.Loop, text string, shared *sharedState) tea.Cmd {
	return func() tea.Msg {
		outcome, err := loop.Run(ctx, text)
		return runDoneMsg{outcome: outcome, err: err}
	}
}

// ForwardEvent is installed as the loop's observer; it pushes loop
// events into the bubbletea update cycle.
func (m *ChatModel) ForwardEvent(ev agent.Event) {
	if m.shared.program != nil {
		m.shared.program.Send(loopEventMsg(ev))
	}
}

func (m ChatModel) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 2
	statusHeight := 1
	inputHeight := 5
	vpHeight := msg.Height - headerHeight - statusHeight - inputHeight

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.viewport.SetContent(m.shared.output.String())
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
		m.viewport.SetContent(m.shared.output.String())
	}

	m.input.SetWidth(msg.Width - 4)
	return m, nil
}

func (m *ChatModel) renderEvent(ev agent.Event) {
	switch ev.Kind {
	case agent.EventToolCall:
		call := ev.Entry.ToolCall
		m.shared.output.WriteString(toolStyle.Render("⚒ "+call.Tool) + " " + compactJSON(call.Args) + "\n")
	case agent.EventToolResult:
		res := ev.Entry.ToolResult
		if res.Success {
			m.shared.output.WriteString(toolOutputStyle.Render("  → "+previewPayload(res.Payload)) + "\n")
		} else {
			m.shared.output.WriteString(errorStyle.Render("  ✗ "+res.ErrorDetail) + "\n")
		}
	case agent.EventAnswer:
		m.shared.output.WriteString(agentStyle.Render(ev.Answer) + "\n\n")
	}
}

func (m ChatModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	header := titleStyle.Render("🍕 pizzaiolo")

	status := statusStyle.Render(fmt.Sprintf("turns: %d", m.turns))
	if m.active {
		status = statusStyle.Render(m.spinner.View() + " working · ctrl+c to cancel")
	}

	return header + "\n" +
		m.viewport.View() + "\n" +
		status + "\n" +
		inputBorderStyle.Render(m.input.View())
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return truncate(string(b), 120)
}

func previewPayload(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return truncate(string(b), 200)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
