// Package executor runs workflow plans against real generation services:
// per-scene fallback chains, two-wave concurrent scheduling, per-vendor rate
// limits and an append-only attempt log.
package executor

import (
	"context"
	"time"

	"reelforge/internal/core"
	"reelforge/internal/logging"
	"reelforge/internal/registry"
)

const (
	defaultMaxAttempts  = 3
	defaultTimeoutSlack = 3.0
)

// Engine executes one logical unit of work with ordered fallback.
type Engine struct {
	reg          *registry.Registry
	exec         core.ToolExecutor
	limiters     *ProviderLimiters
	log          *logging.Logger
	maxAttempts  int
	timeoutSlack float64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxAttempts bounds the fallback chain length.
func WithMaxAttempts(n int) EngineOption {
	return func(e *Engine) { e.maxAttempts = n }
}

// WithTimeoutSlack sets the multiplier applied to a tool's registered
// latency to derive its per-invocation timeout.
func WithTimeoutSlack(slack float64) EngineOption {
	return func(e *Engine) { e.timeoutSlack = slack }
}

// WithEngineLogger sets the logger.
func WithEngineLogger(log *logging.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithLimiters replaces the per-provider rate limiters.
func WithLimiters(l *ProviderLimiters) EngineOption {
	return func(e *Engine) { e.limiters = l }
}

// NewEngine creates a fallback engine over the registry and tool executor.
func NewEngine(reg *registry.Registry, exec core.ToolExecutor, opts ...EngineOption) *Engine {
	e := &Engine{
		reg:          reg,
		exec:         exec,
		limiters:     NewProviderLimiters(),
		log:          logging.NewNop(),
		maxAttempts:  defaultMaxAttempts,
		timeoutSlack: defaultTimeoutSlack,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteWithFallback runs the primary tool and, on failure, its fallback
// chain in order. Every failed attempt is classified and appended to the
// log; the same tool is never tried twice. Cancellation is honored at
// attempt boundaries only; a call already in flight completes or times out
// naturally.
func (e *Engine) ExecuteWithFallback(ctx context.Context, sceneNumber int, primary string, input map[string]any, log *core.ExecutionLog) (*core.ExecutionResult, error) {
	chain, err := e.chain(primary)
	if err != nil {
		return nil, err
	}

	scLog := e.log.WithScene(sceneNumber)
	for i, tool := range chain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptNumber := i + 1
		start := time.Now()
		output, err := e.invoke(ctx, tool, input)
		elapsed := time.Since(start)

		if err == nil {
			log.Append(core.ExecutionAttempt{
				SceneNumber:   sceneNumber,
				Tool:          tool.Name,
				Status:        core.AttemptSuccess,
				AttemptNumber: attemptNumber,
				Duration:      elapsed,
			})
			scLog.Info("tool succeeded",
				"tool", tool.Name,
				"attempt", attemptNumber,
				"fallback", i > 0,
				"duration", elapsed)
			return &core.ExecutionResult{
				Output:        output,
				PrimaryTool:   primary,
				ExecutedTool:  tool.Name,
				AttemptNumber: attemptNumber,
				FallbackUsed:  i > 0,
			}, nil
		}

		kind := core.ClassifyFailure(err)
		log.Append(core.ExecutionAttempt{
			SceneNumber:   sceneNumber,
			Tool:          tool.Name,
			Status:        core.AttemptFailed,
			FailureKind:   kind,
			Err:           err.Error(),
			AttemptNumber: attemptNumber,
			Duration:      elapsed,
		})
		scLog.Warn("tool failed, advancing chain",
			"tool", tool.Name,
			"attempt", attemptNumber,
			"failure_kind", string(kind),
			"error", err.Error())
	}

	names := make([]string, len(chain))
	for i, t := range chain {
		names[i] = t.Name
	}
	return nil, &core.AllToolsFailedError{
		SceneNumber: sceneNumber,
		Chain:       names,
		Attempts:    log.ForScene(sceneNumber),
	}
}

// chain builds the attempt chain: primary first, then its available
// fallbacks, de-duplicated and truncated to maxAttempts.
func (e *Engine) chain(primary string) ([]core.Tool, error) {
	first, err := e.reg.Lookup(primary)
	if err != nil {
		return nil, err
	}
	if !e.reg.Available(primary) {
		return nil, core.ErrToolUnavailable(primary)
	}

	chain := []core.Tool{first}
	for _, alt := range e.reg.FallbackChainFor(primary) {
		if len(chain) >= e.maxAttempts {
			break
		}
		chain = append(chain, alt)
	}
	return chain, nil
}

// invoke runs one tool call under the vendor rate limit and the tool's own
// timeout derived from its registered latency.
func (e *Engine) invoke(ctx context.Context, tool core.Tool, input map[string]any) (map[string]any, error) {
	if err := e.limiters.Get(tool.Provider).Acquire(ctx); err != nil {
		return nil, err
	}

	timeout := time.Duration(float64(tool.LatencySeconds)*e.timeoutSlack) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return e.exec.Run(callCtx, tool.Name, input)
}
