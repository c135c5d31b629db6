package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/joss/pizzaiolo/internal/agent"
	"github.com/joss/pizzaiolo/internal/config"
	"github.com/joss/pizzaiolo/internal/openapi"
	"github.com/joss/pizzaiolo/internal/pizzeria"
	"github.com/joss/pizzaiolo/internal/provider"
	"github.com/joss/pizzaiolo/internal/tool"
)

var (
	headerColor  = color.New(color.FgMagenta, color.Bold)
	toolColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// isTTY reports whether stdout is a terminal; colored output is
// disabled when piping.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	if !isTTY() {
		color.NoColor = true
	}
}

// loadOperations fetches the pizzeria's OpenAPI document, from the live
// server when reachable, otherwise the embedded copy.
func loadOperations(baseURL string, client *http.Client) ([]openapi.Operation, error) {
	raw := pizzeria.OpenAPIDocument()

	resp, err := client.Get(baseURL + "/openapi.json")
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			if live, readErr := io.ReadAll(resp.Body); readErr == nil && len(live) > 0 {
				raw = live
			}
		}
	}

	doc, err := openapi.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse OpenAPI document: %w", err)
	}
	return openapi.Extract(doc)
}

// buildOrderingLoop assembles the ordering agent against the pizzeria.
func buildOrderingLoop(env *config.Env, onEvent func(agent.Event)) (*agent.Loop, error) {
	client := &http.Client{Timeout: env.HTTPTimeout}

	ops, err := loadOperations(env.PizzeriaURL, client)
	if err != nil {
		return nil, err
	}
	registry, err := tool.BuildRegistry(ops, env.PizzeriaURL, client)
	if err != nil {
		return nil, err
	}

	backend := provider.NewOpenAIWithClient(env.OpenAIKey, env.OpenAIBaseURL, client)
	return agent.New(agent.Config{
		Provider:     backend,
		Registry:     registry,
		Model:        env.Model,
		SystemPrompt: agent.OrderingPrompt,
		MaxTurns:     env.MaxTurns,
		ToolRetries:  env.ToolRetries,
		RecordTool:   "placeOrder",
		OnEvent:      onEvent,
	}), nil
}
