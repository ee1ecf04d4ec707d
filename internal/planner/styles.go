// Package planner turns an ordered scene list into an executable workflow
// plan: oracle suggestion, style enforcement, budget and time downgrades,
// and consistency-reference wiring.
package planner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reelforge/internal/core"
)

// SceneToolRule mandates tools for a class of scenes. Empty fields mandate
// nothing for that slot.
type SceneToolRule struct {
	ImageTool string `yaml:"image_tool"`
	VideoTool string `yaml:"video_tool"`
}

// StyleRule is the hard constraint set of one video style. Positional rules
// (opening vs other) and content rules (human vs object) can both apply to a
// scene; content rules win on conflict.
type StyleRule struct {
	OpeningScene SceneToolRule `yaml:"opening_scene"`
	OtherScenes  SceneToolRule `yaml:"other_scenes"`
	HumanScenes  SceneToolRule `yaml:"human_scenes"`
	ObjectScenes SceneToolRule `yaml:"object_scenes"`

	// CharacterConsistency makes non-anchor scenes of multi-scene shot
	// groups reference their group anchor's image artifact.
	CharacterConsistency bool `yaml:"character_consistency"`

	// ConsistencyHumanOnly restricts reference wiring to human scenes.
	ConsistencyHumanOnly bool `yaml:"consistency_human_only"`
}

// StyleRules maps style names to their hard constraints. A style with a zero
// rule imposes nothing.
type StyleRules map[core.VideoStyle]StyleRule

// DefaultStyleRules returns the built-in style presets.
func DefaultStyleRules() StyleRules {
	return StyleRules{
		core.StylePika: {
			OpeningScene:         SceneToolRule{ImageTool: "midjourney", VideoTool: "pika_v2"},
			OtherScenes:          SceneToolRule{ImageTool: "seedream4", VideoTool: "pika_v2"},
			CharacterConsistency: true,
		},
		core.StyleCharacter: {
			HumanScenes:          SceneToolRule{ImageTool: "seedream4", VideoTool: "luma_ray"},
			CharacterConsistency: true,
		},
		core.StyleCinematic: {},
		core.StyleHybrid: {
			HumanScenes:          SceneToolRule{ImageTool: "seedream4", VideoTool: "luma_ray"},
			ObjectScenes:         SceneToolRule{VideoTool: "luma_ray"},
			CharacterConsistency: true,
			ConsistencyHumanOnly: true,
		},
	}
}

// Rule returns the rule for a style. Unknown styles impose nothing.
func (s StyleRules) Rule(style core.VideoStyle) StyleRule {
	return s[style]
}

// For returns the mandates applying to one scene under a rule.
func (r StyleRule) For(scene core.Scene) SceneToolRule {
	var out SceneToolRule
	if scene.Number == 1 {
		out = r.OpeningScene
	} else {
		out = r.OtherScenes
	}

	var content SceneToolRule
	if scene.ContentType.IsHuman() {
		content = r.HumanScenes
	} else {
		content = r.ObjectScenes
	}
	if content.ImageTool != "" {
		out.ImageTool = content.ImageTool
	}
	if content.VideoTool != "" {
		out.VideoTool = content.VideoTool
	}
	return out
}

// LoadStyleRules reads style overrides from a YAML file and merges them over
// the defaults. Styles absent from the file keep their built-in rules.
func LoadStyleRules(path string) (StyleRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style rules: %w", err)
	}

	var overrides map[core.VideoStyle]StyleRule
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, core.ErrValidation("styles_parse", err.Error())
	}

	rules := DefaultStyleRules()
	for style, rule := range overrides {
		if !core.ValidStyle(style) {
			return nil, core.ErrValidation("styles_unknown", fmt.Sprintf("unknown style %q", style))
		}
		rules[style] = rule
	}
	return rules, nil
}
