package oracle

import (
	"encoding/json"
	"strings"

	"reelforge/internal/core"
)

// parseSuggestion decodes the model's JSON into a plan suggestion. The
// output is untrusted: code fences are stripped, a bare scene array is
// accepted, and unknown fields are ignored. Tool validation is the
// planner's job, not done here.
func parseSuggestion(raw string) (*core.PlanSuggestion, error) {
	cleaned := stripFences(raw)

	var suggestion core.PlanSuggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestion); err == nil && len(suggestion.Scenes) > 0 {
		return &suggestion, nil
	}

	// Some models return the scene list without the wrapper object.
	var scenes []core.SuggestedScene
	if err := json.Unmarshal([]byte(cleaned), &scenes); err == nil && len(scenes) > 0 {
		return &core.PlanSuggestion{Scenes: scenes}, nil
	}

	return nil, core.ErrValidation("oracle_parse", "response contains no usable scene plan")
}

// stripFences removes a markdown code fence wrapper if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
