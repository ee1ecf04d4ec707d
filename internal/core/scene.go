package core

// ContentType is the coarse subject classification of a scene, produced by
// the upstream creative stage.
type ContentType string

const (
	ContentHumanPortrait ContentType = "human_portrait"
	ContentHumanAction   ContentType = "human_action"
	ContentObject        ContentType = "object"
	ContentProduct       ContentType = "product"
	ContentFood          ContentType = "food"
	ContentNature        ContentType = "nature"
	ContentText          ContentType = "text"
	ContentTransition    ContentType = "transition"
	ContentAbstract      ContentType = "abstract"
)

// IsHuman reports which side of the human/non-human partition the content
// type falls on. A partition change between adjacent scenes forces a cut.
func (c ContentType) IsHuman() bool {
	return c == ContentHumanPortrait || c == ContentHumanAction
}

// Scene is one unit of video content requiring one image and one animation
// generation. Scenes are produced upstream and are immutable inputs here.
type Scene struct {
	Number      int         `yaml:"number" json:"number"`
	Description string      `yaml:"description" json:"description"`
	ContentType ContentType `yaml:"content_type" json:"content_type"`

	// StartPrompt/EndPrompt form the optional dual-prompt pair used by
	// transition scenes (first-frame / last-frame generation).
	StartPrompt string `yaml:"start_prompt,omitempty" json:"start_prompt,omitempty"`
	EndPrompt   string `yaml:"end_prompt,omitempty" json:"end_prompt,omitempty"`
}

// Transition says how a scene connects to its predecessor.
type Transition string

const (
	// TransitionCut starts a new shot group.
	TransitionCut Transition = "cut"
	// TransitionMorph continues the previous shot group.
	TransitionMorph Transition = "morph"
)

// ShotGroup is a maximal run of visually continuous scenes, bounded by cuts.
// Groups are derived once per run and never mutated after creation.
type ShotGroup struct {
	ID           int   `json:"id"`
	SceneNumbers []int `json:"scene_numbers"`
}

// Anchor returns the scene whose image artifact serves as the consistency
// reference for the rest of the group. It is always the first scene.
func (g ShotGroup) Anchor() int {
	if len(g.SceneNumbers) == 0 {
		return 0
	}
	return g.SceneNumbers[0]
}

// Contains reports whether the group includes the given scene number.
func (g ShotGroup) Contains(scene int) bool {
	for _, n := range g.SceneNumbers {
		if n == scene {
			return true
		}
	}
	return false
}
