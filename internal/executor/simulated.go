package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reelforge/internal/core"
)

// Simulated is a local stand-in for the vendor adapters. It produces
// placeholder artifacts with the registry's cost and latency metadata so
// plans can be exercised end to end without spending credits.
type Simulated struct {
	pricer core.ToolPricer
	dir    string
	delay  time.Duration
}

// SimulatedOption configures a Simulated executor.
type SimulatedOption func(*Simulated)

// WithArtifactDir makes the simulator write placeholder files there.
// Without it, artifact paths are synthesized but nothing touches disk.
func WithArtifactDir(dir string) SimulatedOption {
	return func(s *Simulated) { s.dir = dir }
}

// WithSimulatedDelay adds a per-call delay, useful for exercising
// concurrency and cancellation paths.
func WithSimulatedDelay(d time.Duration) SimulatedOption {
	return func(s *Simulated) { s.delay = d }
}

// NewSimulated creates a simulated executor priced from the registry.
func NewSimulated(pricer core.ToolPricer, opts ...SimulatedOption) *Simulated {
	s := &Simulated{pricer: pricer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run implements core.ToolExecutor.
func (s *Simulated) Run(ctx context.Context, toolName string, input map[string]any) (map[string]any, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	cost, latency, ok := s.pricer.Price(toolName)
	if !ok {
		return nil, core.ErrToolNotFound(toolName)
	}

	scene := 0
	if n, isInt := input["scene_number"].(int); isInt {
		scene = n
	}

	name := fmt.Sprintf("%s_scene%d", toolName, scene)
	path := filepath.Join(s.dir, name+".bin")
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating artifact directory: %w", err)
		}
		content := fmt.Sprintf("simulated artifact: tool=%s scene=%d\n", toolName, scene)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("writing placeholder artifact: %w", err)
		}
	}

	return map[string]any{
		"artifact_path":    path,
		"cost":             cost,
		"duration_seconds": latency,
		"simulated":        true,
	}, nil
}

var _ core.ToolExecutor = (*Simulated)(nil)
