package oracle

import (
	"fmt"
	"strings"

	"reelforge/internal/core"
)

const systemPrompt = `You are an expert workflow optimizer for AI video generation.
You analyze video topics and select the optimal tools for EACH SCENE based on:
- Content type (humans vs objects vs text)
- Quality requirements
- Budget constraints
- Time constraints

Return a JSON object with per-scene tool selection.`

// buildPrompt renders the suggestion request as the analysis prompt.
func buildPrompt(req core.SuggestRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this video topic and recommend the optimal tools for EACH SCENE.\n\n")
	fmt.Fprintf(&b, "**VIDEO REQUEST:**\n")
	fmt.Fprintf(&b, "- Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "- Number of scenes: %d\n", len(req.Scenes))
	fmt.Fprintf(&b, "- Video style: %s\n\n", req.Style)

	b.WriteString("**SCENES:**\n")
	for _, scene := range req.Scenes {
		fmt.Fprintf(&b, "  %d. [%s] %s\n", scene.Number, scene.ContentType, scene.Description)
	}
	b.WriteString("\n")

	b.WriteString("**CONSTRAINTS:**\n")
	b.WriteString(formatConstraints(req.Constraints))
	b.WriteString("\n")

	b.WriteString("**AVAILABLE IMAGE TOOLS:**\n")
	b.WriteString(formatCatalog(req.Catalog.ImageTools))
	b.WriteString("\n**AVAILABLE VIDEO TOOLS:**\n")
	b.WriteString(formatCatalog(req.Catalog.VideoTools))

	fmt.Fprintf(&b, `
**YOUR TASK:**
For each of the %d scenes, select:
1. An image generation tool (to create the static frame)
2. A video animation tool (to bring it to life)

Only use tool names from the catalogs above.

Return JSON in this format:
{
  "reasoning": "Overall strategy explanation",
  "quality_level": "budget|standard|premium|viral",
  "scenes": [
    {
      "scene_number": 1,
      "description": "Brief scene description",
      "image_tool": "tool_name",
      "video_tool": "tool_name",
      "reasoning": "Why these tools"
    }
  ]
}
`, len(req.Scenes))

	return b.String()
}

func formatConstraints(c core.Constraints) string {
	var lines []string
	if c.MaxCost >= 0 {
		lines = append(lines, fmt.Sprintf("- Maximum budget: $%.2f", c.MaxCost))
	}
	if c.MaxTime >= 0 {
		lines = append(lines, fmt.Sprintf("- Maximum time: %ds", c.MaxTime))
	}
	if c.QualityPreset != "" {
		lines = append(lines, fmt.Sprintf("- Quality preset: %s", c.QualityPreset))
	}
	if len(lines) == 0 {
		return "- No specific constraints\n"
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatCatalog(tools []core.Tool) string {
	if len(tools) == 0 {
		return "(none available)\n"
	}
	var b strings.Builder
	for _, t := range tools {
		fmt.Fprintf(&b, "**%s**\n- Cost: $%.2f\n- Speed: %ds\n- Best for: %s\n",
			t.Name, t.Cost, t.LatencySeconds, strings.Join(t.CapabilityTags, ", "))
	}
	return b.String()
}
