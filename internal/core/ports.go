package core

import (
	"context"
	"time"
)

// ToolExecutor is the abstract boundary to the real vendor adapters. The
// core never inspects vendor-specific response shapes; adapters normalize
// their output to {artifact_path, cost, duration_seconds} before returning.
type ToolExecutor interface {
	Run(ctx context.Context, toolName string, input map[string]any) (map[string]any, error)
}

// SuggestRequest is the input to the advisory oracle.
type SuggestRequest struct {
	Topic       string
	Scenes      []Scene
	Catalog     ToolCatalogView
	Constraints Constraints
	Style       VideoStyle
}

// SuggestedScene is one line of an oracle plan suggestion. Untrusted:
// the enforcement engine validates and may override every field.
type SuggestedScene struct {
	SceneNumber int    `json:"scene_number"`
	Description string `json:"description"`
	ImageTool   string `json:"image_tool"`
	VideoTool   string `json:"video_tool"`
	Reasoning   string `json:"reasoning"`
}

// PlanSuggestion is the oracle's candidate plan.
type PlanSuggestion struct {
	Reasoning    string           `json:"reasoning"`
	QualityLevel QualityLevel     `json:"quality_level"`
	Scenes       []SuggestedScene `json:"scenes"`
}

// Oracle proposes an initial per-scene tool assignment. Implementations must
// honor the context deadline; errors are non-fatal for planning.
type Oracle interface {
	SuggestPlan(ctx context.Context, req SuggestRequest) (*PlanSuggestion, error)
}

// RunRecord is the archived summary of one run, kept for diagnostics.
type RunRecord struct {
	ID            string
	Topic         string
	Style         VideoStyle
	Quality       QualityLevel
	SceneCount    int
	EstimatedCost float64
	EstimatedTime int
	CreatedAt     time.Time
	Attempts      []ExecutionAttempt
}

// RunStore archives run records. A nil store disables archiving.
type RunStore interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
}
