package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	e := Load()
	assert.Equal(t, "http://localhost:8000", e.PizzeriaURL)
	assert.Equal(t, "gpt-4o-mini", e.Model)
	assert.Equal(t, 6, e.MaxTurns)
	assert.Equal(t, 1, e.ToolRetries)
	assert.Equal(t, 30*time.Second, e.HTTPTimeout)
	assert.NotEmpty(t, e.CalendarDB)
}

func TestLoadOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("PIZZERIA_URL", "http://pizzeria:9000")
	t.Setenv("PIZZAIOLO_MAX_TURNS", "10")
	t.Setenv("PIZZAIOLO_HTTP_TIMEOUT_SECONDS", "5")

	e := Load()
	assert.Equal(t, "http://pizzeria:9000", e.PizzeriaURL)
	assert.Equal(t, 10, e.MaxTurns)
	assert.Equal(t, 5*time.Second, e.HTTPTimeout)
}

func TestLoadIgnoresInvalidInts(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("PIZZAIOLO_MAX_TURNS", "not-a-number")
	t.Setenv("PIZZAIOLO_TOOL_RETRIES", "lots")

	e := Load()
	assert.Equal(t, 6, e.MaxTurns)
	assert.Equal(t, 1, e.ToolRetries)
}

func TestLoadRetriesZeroDisables(t *testing.T) {
	cases := map[string]int{
		"0":  -1,
		"-3": -1,
		"2":  2,
	}
	for in, want := range cases {
		Reset()
		t.Setenv("PIZZAIOLO_TOOL_RETRIES", in)
		assert.Equal(t, want, Load().ToolRetries, "input %q", in)
	}
	Reset()
}

func TestLoadIsCached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := Load()
	t.Setenv("PIZZAIOLO_MAX_TURNS", "99")
	second := Load()
	assert.Same(t, first, second)
}
