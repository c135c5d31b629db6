// Package config provides centralized configuration management.
// All environment lookups live here instead of scattered os.Getenv calls.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Env holds all pizzaiolo environment variables.
type Env struct {
	// PizzeriaURL is the base URL of the pizza REST API (PIZZERIA_URL)
	PizzeriaURL string

	// OpenAIKey is the API key for the capability backend (OPENAI_API_KEY)
	OpenAIKey string

	// OpenAIBaseURL overrides the capability backend base URL (OPENAI_BASE_URL)
	OpenAIBaseURL string

	// Model is the capability backend model (PIZZAIOLO_MODEL)
	Model string

	// MaxTurns bounds each agent loop (PIZZAIOLO_MAX_TURNS)
	MaxTurns int

	// ToolRetries is the retry budget for failed tool executions
	// (PIZZAIOLO_TOOL_RETRIES). An explicit 0 disables retries and is
	// carried as -1, the agent loop's disabled value.
	ToolRetries int

	// HTTPTimeout bounds every outbound HTTP call (PIZZAIOLO_HTTP_TIMEOUT_SECONDS)
	HTTPTimeout time.Duration

	// CalendarDB is the sqlite path for the delivery schedule (PIZZAIOLO_CALENDAR_DB)
	CalendarDB string
}

var (
	env     *Env
	envOnce sync.Once
)

// Load returns the singleton environment configuration.
// Reads .env from the working directory first (missing file is fine),
// then the process environment. Thread-safe, loads once.
func Load() *Env {
	envOnce.Do(func() {
		_ = godotenv.Load()

		env = &Env{
			PizzeriaURL:   getEnvDefault("PIZZERIA_URL", "http://localhost:8000"),
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:         getEnvDefault("PIZZAIOLO_MODEL", "gpt-4o-mini"),
			MaxTurns:      getEnvInt("PIZZAIOLO_MAX_TURNS", 6),
			ToolRetries:   getEnvRetries("PIZZAIOLO_TOOL_RETRIES", 1),
			HTTPTimeout:   time.Duration(getEnvInt("PIZZAIOLO_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
			CalendarDB:    getEnvDefault("PIZZAIOLO_CALENDAR_DB", defaultCalendarDB()),
		}
	})
	return env
}

// Reset clears the cached environment (for testing).
func Reset() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// getEnvRetries keeps an explicit zero distinct from an unset variable.
// The agent loop reads 0 as "use the default", so a configured 0 or
// negative maps onto -1, its disabled value.
func getEnvRetries(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	if n <= 0 {
		return -1
	}
	return n
}

func defaultCalendarDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pizzaiolo", "calendar.db")
}
