package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestLoggerEmitsJSON(t *testing.T) {
	buf := captureOutput(t)

	log := New("invoker").WithSession("sess-1").WithTool("placeOrder").WithTurn(3)
	log.Info("tool_call", map[string]any{"args": 2})

	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, "invoker", e.Component)
	assert.Equal(t, "tool_call", e.Event)
	assert.Equal(t, "sess-1", e.Session)
	assert.Equal(t, "placeOrder", e.Tool)
	assert.Equal(t, 3, e.Turn)
}

func TestLoggerErrorField(t *testing.T) {
	buf := captureOutput(t)

	New("agent").Error("turn_failed", nil, errors.New("boom"))

	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, "boom", e.Error)
}

func TestWithSessionDoesNotMutateParent(t *testing.T) {
	parent := New("agent")
	child := parent.WithSession("sess-2")

	assert.Empty(t, parent.session)
	assert.Equal(t, "sess-2", child.session)
}

func TestTimedEventDuration(t *testing.T) {
	buf := captureOutput(t)

	start := time.Now().Add(-50 * time.Millisecond)
	New("invoker").TimedEvent("http_call", start, nil)

	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.GreaterOrEqual(t, e.Duration, int64(50))
}
