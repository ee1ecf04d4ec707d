package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelforge/internal/core"
)

func TestParseSuggestion_WrapperObject(t *testing.T) {
	raw := `{
		"reasoning": "luma for consistency",
		"quality_level": "standard",
		"scenes": [
			{"scene_number": 1, "image_tool": "flux_dev", "video_tool": "luma_ray", "reasoning": "default"},
			{"scene_number": 2, "image_tool": "seedream4", "video_tool": "luma_ray"}
		]
	}`

	s, err := parseSuggestion(raw)
	require.NoError(t, err)
	assert.Equal(t, "luma for consistency", s.Reasoning)
	assert.Equal(t, core.QualityStandard, s.QualityLevel)
	require.Len(t, s.Scenes, 2)
	assert.Equal(t, "flux_dev", s.Scenes[0].ImageTool)
	assert.Equal(t, 2, s.Scenes[1].SceneNumber)
}

func TestParseSuggestion_BareArray(t *testing.T) {
	raw := `[{"scene_number": 1, "image_tool": "flux_dev", "video_tool": "wan_i2v"}]`

	s, err := parseSuggestion(raw)
	require.NoError(t, err)
	require.Len(t, s.Scenes, 1)
	assert.Equal(t, "wan_i2v", s.Scenes[0].VideoTool)
}

func TestParseSuggestion_CodeFence(t *testing.T) {
	raw := "```json\n{\"scenes\": [{\"scene_number\": 1, \"image_tool\": \"flux_dev\", \"video_tool\": \"luma_ray\"}]}\n```"

	s, err := parseSuggestion(raw)
	require.NoError(t, err)
	require.Len(t, s.Scenes, 1)
}

func TestParseSuggestion_Unusable(t *testing.T) {
	for _, raw := range []string{
		"",
		"not json at all",
		`{"reasoning": "thoughts but no scenes"}`,
		`{"scenes": []}`,
	} {
		_, err := parseSuggestion(raw)
		assert.True(t, core.IsKind(err, core.KindValidation), "input %q should be rejected", raw)
	}
}

func TestParseSuggestion_IgnoresUnknownFields(t *testing.T) {
	raw := `{"scenes": [{"scene_number": 1, "image_tool": "flux_dev", "video_tool": "luma_ray", "confidence": 0.9}], "model_notes": "x"}`

	s, err := parseSuggestion(raw)
	require.NoError(t, err)
	require.Len(t, s.Scenes, 1)
}

func TestBuildPrompt_IncludesScenesAndCatalog(t *testing.T) {
	req := core.SuggestRequest{
		Topic: "morning coffee ritual",
		Scenes: []core.Scene{
			{Number: 1, Description: "sunrise over city", ContentType: core.ContentNature},
			{Number: 2, Description: "woman stretching", ContentType: core.ContentHumanAction},
		},
		Catalog: core.ToolCatalogView{
			ImageTools: []core.Tool{{Name: "flux_dev", Cost: 0.03, LatencySeconds: 30, CapabilityTags: []string{"balanced quality"}}},
			VideoTools: []core.Tool{{Name: "luma_ray", Cost: 0.15, LatencySeconds: 150}},
		},
		Constraints: core.Constraints{MaxCost: 2.5, MaxTime: 600, QualityPreset: core.QualityStandard},
		Style:       core.StylePika,
	}

	prompt := buildPrompt(req)

	for _, want := range []string{
		"morning coffee ritual",
		"Number of scenes: 2",
		"Video style: pika",
		"[nature] sunrise over city",
		"[human_action] woman stretching",
		"Maximum budget: $2.50",
		"Maximum time: 600s",
		"**flux_dev**",
		"**luma_ray**",
		"balanced quality",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildPrompt_UnconstrainedOmitsCeilings(t *testing.T) {
	req := core.SuggestRequest{
		Topic:       "test",
		Scenes:      []core.Scene{{Number: 1, Description: "x"}},
		Constraints: core.Constraints{MaxCost: core.Unconstrained, MaxTime: core.Unconstrained},
	}
	prompt := buildPrompt(req)
	assert.NotContains(t, prompt, "Maximum budget")
	assert.NotContains(t, prompt, "Maximum time")
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)

	c, err := New("sk-test", WithModel("gpt-4.1-mini"), WithTemperature(0.1))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-mini", c.model)
	assert.InDelta(t, 0.1, float64(c.temperature), 0.001)
}
