package core

import "sort"

// QualityLevel selects the template tool tier.
type QualityLevel string

const (
	QualityBudget   QualityLevel = "budget"
	QualityStandard QualityLevel = "standard"
	QualityPremium  QualityLevel = "premium"
	QualityViral    QualityLevel = "viral"
)

// ValidQuality reports whether q is a known quality preset.
func ValidQuality(q QualityLevel) bool {
	switch q {
	case QualityBudget, QualityStandard, QualityPremium, QualityViral:
		return true
	}
	return false
}

// VideoStyle is a named preset imposing hard per-scene tool constraints.
type VideoStyle string

const (
	StyleCharacter VideoStyle = "character"
	StyleCinematic VideoStyle = "cinematic"
	StylePika      VideoStyle = "pika"
	StyleHybrid    VideoStyle = "hybrid"
)

// ValidStyle reports whether s is a known video style.
func ValidStyle(s VideoStyle) bool {
	switch s {
	case StyleCharacter, StyleCinematic, StylePika, StyleHybrid:
		return true
	}
	return false
}

// Unconstrained disables a planning ceiling.
const Unconstrained = -1

// Constraints are the caller-supplied planning ceilings. A negative ceiling
// means unconstrained; zero is a real zero budget.
type Constraints struct {
	MaxCost       float64
	MaxTime       int // seconds
	QualityPreset QualityLevel
	VideoStyle    VideoStyle
}

// ScenePlan assigns concrete tools to one scene. Reasoning is free text kept
// for auditability only; nothing branches on it.
type ScenePlan struct {
	SceneNumber int        `json:"scene_number"`
	Description string     `json:"description"`
	ImageTool   string     `json:"image_tool"`
	VideoTool   string     `json:"video_tool"`
	Reasoning   string     `json:"reasoning"`
	GroupID     int        `json:"group_id"`
	Transition  Transition `json:"transition"`

	// ReferenceSceneNumber, when non-zero, makes this scene wait for the
	// referenced scene's image artifact before it may execute.
	ReferenceSceneNumber int `json:"reference_scene_number,omitempty"`
}

// PlanWarning is a non-fatal planning outcome surfaced to the caller
// (infeasible budget, unresolved style conflict, ...).
type PlanWarning struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ToolPricer resolves a tool name to its registered cost and latency.
// The registry implements it.
type ToolPricer interface {
	Price(toolName string) (cost float64, latencySeconds int, ok bool)
}

// WorkflowPlan is the full per-scene tool assignment plus derived aggregates.
// EstimatedCost and EstimatedTime are always recomputed from the line items
// through Recalculate; they are never patched incrementally.
type WorkflowPlan struct {
	ScenePlans    []*ScenePlan  `json:"scene_plans"`
	ImageTools    []string      `json:"image_tools"`
	VideoTools    []string      `json:"video_tools"`
	Reasoning     string        `json:"reasoning"`
	EstimatedCost float64       `json:"estimated_cost"`
	EstimatedTime int           `json:"estimated_time"`
	QualityLevel  QualityLevel  `json:"quality_level"`
	Groups        []ShotGroup   `json:"groups"`
	Warnings      []PlanWarning `json:"warnings,omitempty"`
}

// Recalculate recomputes cost, time and the distinct tool sets from the
// current line items. Tools unknown to the pricer contribute nothing.
func (p *WorkflowPlan) Recalculate(pricer ToolPricer) {
	var cost float64
	var seconds int
	imageSet := map[string]struct{}{}
	videoSet := map[string]struct{}{}

	for _, sp := range p.ScenePlans {
		if c, lat, ok := pricer.Price(sp.ImageTool); ok {
			cost += c
			seconds += lat
		}
		if c, lat, ok := pricer.Price(sp.VideoTool); ok {
			cost += c
			seconds += lat
		}
		imageSet[sp.ImageTool] = struct{}{}
		videoSet[sp.VideoTool] = struct{}{}
	}

	p.EstimatedCost = cost
	p.EstimatedTime = seconds
	p.ImageTools = sortedKeys(imageSet)
	p.VideoTools = sortedKeys(videoSet)
}

// Scene returns the plan line item for a scene number, or nil.
func (p *WorkflowPlan) Scene(number int) *ScenePlan {
	for _, sp := range p.ScenePlans {
		if sp.SceneNumber == number {
			return sp
		}
	}
	return nil
}

// Warn appends a plan warning.
func (p *WorkflowPlan) Warn(kind ErrorKind, message string) {
	p.Warnings = append(p.Warnings, PlanWarning{Kind: kind, Message: message})
}

// HasWarning reports whether a warning of the given kind was recorded.
func (p *WorkflowPlan) HasWarning(kind ErrorKind) bool {
	for _, w := range p.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
