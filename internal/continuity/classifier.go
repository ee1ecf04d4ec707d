// Package continuity classifies scene-to-scene continuity: each adjacent
// pair of scenes is either the same shot (smooth morph) or a new shot (hard
// cut), and maximal morph runs form shot groups.
package continuity

import (
	"strings"

	"reelforge/internal/core"
)

// Annotation is a scene with its derived continuity attributes.
type Annotation struct {
	Scene      core.Scene
	GroupID    int
	Transition core.Transition
}

// Config holds the classifier vocabularies. Zero fields fall back to the
// package defaults.
type Config struct {
	Locations []string
	TimeOfDay []string
	CloseShot []string
	WideShot  []string
}

// Classifier decides cut-vs-morph for adjacent scene pairs. It is a pure,
// deterministic, order-dependent fold with no backtracking.
type Classifier struct {
	locations []string
	timeOfDay []string
	closeShot []string
	wideShot  []string
}

// New creates a classifier with the default vocabularies.
func New() *Classifier {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a classifier with custom vocabularies.
func NewWithConfig(cfg Config) *Classifier {
	c := &Classifier{
		locations: cfg.Locations,
		timeOfDay: cfg.TimeOfDay,
		closeShot: cfg.CloseShot,
		wideShot:  cfg.WideShot,
	}
	if c.locations == nil {
		c.locations = DefaultLocations
	}
	if c.timeOfDay == nil {
		c.timeOfDay = DefaultTimeOfDay
	}
	if c.closeShot == nil {
		c.closeShot = DefaultCloseShot
	}
	if c.wideShot == nil {
		c.wideShot = DefaultWideShot
	}
	return c
}

// Classify annotates every scene with its shot group and transition. The
// first scene is always a cut and the origin of group 1.
func (c *Classifier) Classify(scenes []core.Scene) []Annotation {
	if len(scenes) == 0 {
		return nil
	}

	out := make([]Annotation, len(scenes))
	group := 1
	out[0] = Annotation{Scene: scenes[0], GroupID: group, Transition: core.TransitionCut}

	for i := 1; i < len(scenes); i++ {
		transition := core.TransitionMorph
		if c.IsCut(scenes[i-1], scenes[i]) {
			group++
			transition = core.TransitionCut
		}
		out[i] = Annotation{Scene: scenes[i], GroupID: group, Transition: transition}
	}
	return out
}

// IsCut reports whether the pair (prev, curr) crosses a shot boundary. The
// rules are independently evaluated and OR'd.
func (c *Classifier) IsCut(prev, curr core.Scene) bool {
	prevDesc := strings.ToLower(prev.Description)
	currDesc := strings.ToLower(curr.Description)

	if c.locationChanged(prevDesc, currDesc) {
		return true
	}
	if prev.ContentType.IsHuman() != curr.ContentType.IsHuman() {
		return true
	}
	if c.timeJump(prevDesc, currDesc) {
		return true
	}
	if c.cameraDistanceJump(prevDesc, currDesc) {
		return true
	}
	return false
}

// locationChanged fires when both descriptions name recognized locations and
// the matched sets are disjoint.
func (c *Classifier) locationChanged(prev, curr string) bool {
	prevLocs := matchAll(prev, c.locations)
	currLocs := matchAll(curr, c.locations)
	if len(prevLocs) == 0 || len(currLocs) == 0 {
		return false
	}
	for loc := range prevLocs {
		if currLocs[loc] {
			return false
		}
	}
	return true
}

// timeJump fires when both descriptions name a time-of-day period and the
// ordinal distance exceeds one.
func (c *Classifier) timeJump(prev, curr string) bool {
	p := c.timeOrdinal(prev)
	q := c.timeOrdinal(curr)
	if p == 0 || q == 0 {
		return false
	}
	d := p - q
	if d < 0 {
		d = -d
	}
	return d > 1
}

// timeOrdinal returns the 1-based position of the matched period, or 0. When
// several keywords match, the longest wins so "afternoon" is not mistaken
// for "noon" nor "midnight" for "night".
func (c *Classifier) timeOrdinal(desc string) int {
	best, bestLen := 0, 0
	for i, kw := range c.timeOfDay {
		if strings.Contains(desc, kw) && len(kw) > bestLen {
			best, bestLen = i+1, len(kw)
		}
	}
	return best
}

// cameraDistanceJump fires when one description reads close and the other
// wide, in either order.
func (c *Classifier) cameraDistanceJump(prev, curr string) bool {
	prevClose := matchesAny(prev, c.closeShot)
	prevWide := matchesAny(prev, c.wideShot)
	currClose := matchesAny(curr, c.closeShot)
	currWide := matchesAny(curr, c.wideShot)
	return (prevClose && currWide) || (prevWide && currClose)
}

// Groups derives the shot groups from an annotated scene list.
func Groups(annotations []Annotation) []core.ShotGroup {
	var out []core.ShotGroup
	for _, a := range annotations {
		if len(out) == 0 || out[len(out)-1].ID != a.GroupID {
			out = append(out, core.ShotGroup{ID: a.GroupID})
		}
		last := &out[len(out)-1]
		last.SceneNumbers = append(last.SceneNumbers, a.Scene.Number)
	}
	return out
}

func matchAll(desc string, vocab []string) map[string]bool {
	out := map[string]bool{}
	for _, kw := range vocab {
		if strings.Contains(desc, kw) {
			out[kw] = true
		}
	}
	return out
}

func matchesAny(desc string, vocab []string) bool {
	for _, kw := range vocab {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
