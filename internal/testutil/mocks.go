// Package testutil provides shared test doubles for the planning and
// execution core.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reelforge/internal/core"
)

// ToolCall records one invocation of the mock executor.
type ToolCall struct {
	Tool      string
	Input     map[string]any
	Timestamp time.Time
}

// MockToolExecutor implements core.ToolExecutor with scriptable per-tool
// behavior and call recording. Safe for concurrent use.
type MockToolExecutor struct {
	mu       sync.Mutex
	calls    []ToolCall
	failures map[string]error
	failOnce map[string]error
	runFunc  func(ctx context.Context, tool string, input map[string]any) (map[string]any, error)
	delay    time.Duration
}

// NewMockToolExecutor creates a mock executor that succeeds for every tool.
func NewMockToolExecutor() *MockToolExecutor {
	return &MockToolExecutor{
		failures: make(map[string]error),
		failOnce: make(map[string]error),
	}
}

// WithFailure makes every invocation of a tool return err.
func (m *MockToolExecutor) WithFailure(tool string, err error) *MockToolExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[tool] = err
	return m
}

// WithFailureOnce makes only the first invocation of a tool return err.
func (m *MockToolExecutor) WithFailureOnce(tool string, err error) *MockToolExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOnce[tool] = err
	return m
}

// WithRunFunc replaces the default behavior entirely.
func (m *MockToolExecutor) WithRunFunc(fn func(ctx context.Context, tool string, input map[string]any) (map[string]any, error)) *MockToolExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runFunc = fn
	return m
}

// WithDelay makes every invocation take at least d.
func (m *MockToolExecutor) WithDelay(d time.Duration) *MockToolExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// Run implements core.ToolExecutor.
func (m *MockToolExecutor) Run(ctx context.Context, tool string, input map[string]any) (map[string]any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ToolCall{Tool: tool, Input: input, Timestamp: time.Now()})
	runFunc := m.runFunc
	delay := m.delay
	err, failing := m.failures[tool]
	if !failing {
		if once, ok := m.failOnce[tool]; ok {
			err, failing = once, true
			delete(m.failOnce, tool)
		}
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if runFunc != nil {
		return runFunc(ctx, tool, input)
	}
	if failing {
		return nil, err
	}

	scene := 0
	if n, ok := input["scene_number"].(int); ok {
		scene = n
	}
	return map[string]any{
		"artifact_path":    fmt.Sprintf("output/%s_scene%d.bin", tool, scene),
		"cost":             0.01,
		"duration_seconds": 1,
	}, nil
}

// Calls returns a copy of the recorded calls.
func (m *MockToolExecutor) Calls() []ToolCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ToolCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded calls for one tool name.
func (m *MockToolExecutor) CallsFor(tool string) []ToolCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ToolCall
	for _, c := range m.calls {
		if c.Tool == tool {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns the total number of recorded calls.
func (m *MockToolExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockRunStore implements core.RunStore in memory.
type MockRunStore struct {
	mu      sync.Mutex
	records []*core.RunRecord
	err     error
}

// NewMockRunStore creates an in-memory run store.
func NewMockRunStore() *MockRunStore {
	return &MockRunStore{}
}

// WithError makes SaveRun fail.
func (m *MockRunStore) WithError(err error) *MockRunStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// SaveRun implements core.RunStore.
func (m *MockRunStore) SaveRun(_ context.Context, rec *core.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

// Records returns the saved run records.
func (m *MockRunStore) Records() []*core.RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*core.RunRecord, len(m.records))
	copy(out, m.records)
	return out
}
