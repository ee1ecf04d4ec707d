package planner

import (
	"fmt"

	"reelforge/internal/core"
)

// templateTools is the per-quality uniform tool pair used when the oracle is
// unavailable or a suggestion leaves a scene uncovered.
var templateTools = map[core.QualityLevel]SceneToolRule{
	core.QualityBudget:   {ImageTool: "flux_schnell", VideoTool: "wan_i2v"},
	core.QualityStandard: {ImageTool: "flux_dev", VideoTool: "luma_ray"},
	core.QualityPremium:  {ImageTool: "flux_pro", VideoTool: "runway_gen4_turbo"},
	core.QualityViral:    {ImageTool: "flux_pro", VideoTool: "runway_gen4_turbo"},
}

// TemplateTools returns the uniform tool pair for a quality preset.
func TemplateTools(quality core.QualityLevel) SceneToolRule {
	if pair, ok := templateTools[quality]; ok {
		return pair
	}
	return templateTools[core.QualityStandard]
}

// TemplatePlan builds the deterministic fallback plan: one fixed tool pair
// chosen by quality, applied uniformly to every scene.
func TemplatePlan(scenes []core.Scene, quality core.QualityLevel, pricer core.ToolPricer) *core.WorkflowPlan {
	if !core.ValidQuality(quality) {
		quality = core.QualityStandard
	}
	pair := TemplateTools(quality)

	plan := &core.WorkflowPlan{
		QualityLevel: quality,
		Reasoning:    fmt.Sprintf("template plan (%s preset)", quality),
	}
	for _, scene := range scenes {
		plan.ScenePlans = append(plan.ScenePlans, &core.ScenePlan{
			SceneNumber: scene.Number,
			Description: scene.Description,
			ImageTool:   pair.ImageTool,
			VideoTool:   pair.VideoTool,
			Reasoning:   "template default",
		})
	}
	plan.Recalculate(pricer)
	return plan
}
