package core

import (
	"sync"
	"time"
)

// AttemptStatus is the outcome of a single tool invocation.
type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "success"
	AttemptFailed  AttemptStatus = "failed"
)

// FailureKind classifies a failed attempt. Empty for successes.
type FailureKind string

const (
	FailureInsufficientCredits FailureKind = "insufficient_credits"
	FailureContentPolicy       FailureKind = "content_policy"
	FailureTransient           FailureKind = "transient_error"
)

// ExecutionAttempt records one tool invocation, successful or not.
type ExecutionAttempt struct {
	SceneNumber   int           `json:"scene_number,omitempty"`
	Tool          string        `json:"tool"`
	Status        AttemptStatus `json:"status"`
	FailureKind   FailureKind   `json:"failure_kind,omitempty"`
	Err           string        `json:"error,omitempty"`
	AttemptNumber int           `json:"attempt_number"`
	Duration      time.Duration `json:"duration"`
}

// ExecutionLog is the append-only attempt history for a run. It is safe for
// concurrent appends from parallel scene workers.
type ExecutionLog struct {
	mu       sync.Mutex
	attempts []ExecutionAttempt
}

// NewExecutionLog creates an empty log.
func NewExecutionLog() *ExecutionLog {
	return &ExecutionLog{}
}

// Append records an attempt.
func (l *ExecutionLog) Append(a ExecutionAttempt) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, a)
}

// Attempts returns a copy of the recorded attempts.
func (l *ExecutionLog) Attempts() []ExecutionAttempt {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ExecutionAttempt, len(l.attempts))
	copy(out, l.attempts)
	return out
}

// Len returns the number of recorded attempts.
func (l *ExecutionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

// ForScene returns the attempts recorded for a scene.
func (l *ExecutionLog) ForScene(scene int) []ExecutionAttempt {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []ExecutionAttempt
	for _, a := range l.attempts {
		if a.SceneNumber == scene {
			out = append(out, a)
		}
	}
	return out
}

// ExecutionResult is the outcome of one fallback-chain execution, annotated
// for observability with which attempt succeeded.
type ExecutionResult struct {
	Output        map[string]any
	PrimaryTool   string
	ExecutedTool  string
	AttemptNumber int
	FallbackUsed  bool
}

// ArtifactPath extracts the normalized artifact path from the tool output.
func (r *ExecutionResult) ArtifactPath() string {
	if r == nil || r.Output == nil {
		return ""
	}
	if p, ok := r.Output["artifact_path"].(string); ok {
		return p
	}
	return ""
}

// SceneArtifact holds the produced media paths for one scene.
type SceneArtifact struct {
	SceneNumber int    `json:"scene_number"`
	ImagePath   string `json:"image_path"`
	VideoPath   string `json:"video_path"`
}

// SceneFailure records a scene whose fallback chain was exhausted.
type SceneFailure struct {
	SceneNumber int    `json:"scene_number"`
	Stage       string `json:"stage"` // "image" or "video"
	Err         error  `json:"-"`
}

// RunResult is handed to the downstream assembly stage after execution.
type RunResult struct {
	RunID     string          `json:"run_id"`
	Artifacts []SceneArtifact `json:"artifacts"`
	Failures  []SceneFailure  `json:"failures,omitempty"`
	Log       *ExecutionLog   `json:"-"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}
