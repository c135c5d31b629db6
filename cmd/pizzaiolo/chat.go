package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joss/pizzaiolo/internal/agent"
	"github.com/joss/pizzaiolo/internal/config"
	"github.com/joss/pizzaiolo/internal/logging"
	"github.com/joss/pizzaiolo/internal/tui"
)

// runChat starts the interactive ordering chat. The TUI owns the
// terminal, so structured logs are muted while it runs.
func runChat() error {
	env := config.Load()
	if env.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	logging.SetOutput(io.Discard)

	var model tui.ChatModel
	loop, err := buildOrderingLoop(env, func(ev agent.Event) {
		model.ForwardEvent(ev)
	})
	if err != nil {
		return err
	}

	model = tui.NewChatModel(loop)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	_, err = p.Run()
	return err
}
