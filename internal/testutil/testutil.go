// Package testutil provides common test helpers and utilities.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joss/pizzaiolo/internal/provider"
)

// SetEnv sets an environment variable and restores the previous value
// when the test ends.
func SetEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

// ScriptedProvider replays a fixed sequence of decisions. When the
// script runs out, the last decision repeats, which makes it easy to
// model a backend stuck on the same bad tool call.
type ScriptedProvider struct {
	decisions []*provider.Decision
	requests  []*provider.Request
	callCount int
	mu        sync.Mutex
}

func NewScriptedProvider(decisions ...*provider.Decision) *ScriptedProvider {
	return &ScriptedProvider{decisions: decisions}
}

func (s *ScriptedProvider) ID() string { return "scripted" }

func (s *ScriptedProvider) Decide(ctx context.Context, req *provider.Request) (*provider.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := *req
	s.requests = append(s.requests, &snapshot)
	idx := s.callCount
	s.callCount++
	if len(s.decisions) == 0 {
		return nil, provider.ErrEmptyDecision
	}
	if idx >= len(s.decisions) {
		idx = len(s.decisions) - 1
	}
	return s.decisions[idx], nil
}

// Calls returns how many times Decide ran.
func (s *ScriptedProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

// Requests returns the captured requests in call order.
func (s *ScriptedProvider) Requests() []*provider.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*provider.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

var _ provider.Provider = (*ScriptedProvider)(nil)
