package planner

import (
	"context"
	"fmt"
	"time"

	"reelforge/internal/continuity"
	"reelforge/internal/core"
	"reelforge/internal/logging"
	"reelforge/internal/registry"
)

const defaultOracleTimeout = 45 * time.Second

// PlanRequest carries the inputs to plan assembly.
type PlanRequest struct {
	Topic       string
	Scenes      []core.Scene
	Constraints core.Constraints
}

// Planner assembles workflow plans. The oracle is advisory and optional;
// every plan the planner returns satisfies the style hard constraints and is
// either within the cost/time ceilings or flagged infeasible.
type Planner struct {
	reg           *registry.Registry
	styles        StyleRules
	oracle        core.Oracle
	classifier    *continuity.Classifier
	log           *logging.Logger
	oracleTimeout time.Duration
}

// Option configures a Planner.
type Option func(*Planner)

// WithOracle sets the advisory oracle. Without one the planner always uses
// the template plan.
func WithOracle(o core.Oracle) Option {
	return func(p *Planner) { p.oracle = o }
}

// WithStyles replaces the default style rules.
func WithStyles(rules StyleRules) Option {
	return func(p *Planner) { p.styles = rules }
}

// WithClassifier replaces the default continuity classifier.
func WithClassifier(c *continuity.Classifier) Option {
	return func(p *Planner) { p.classifier = c }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(p *Planner) { p.log = log }
}

// WithOracleTimeout bounds the oracle call.
func WithOracleTimeout(d time.Duration) Option {
	return func(p *Planner) { p.oracleTimeout = d }
}

// New creates a planner over the given registry.
func New(reg *registry.Registry, opts ...Option) *Planner {
	p := &Planner{
		reg:           reg,
		styles:        DefaultStyleRules(),
		classifier:    continuity.New(),
		log:           logging.NewNop(),
		oracleTimeout: defaultOracleTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildPlan produces the final workflow plan for a scene list. Continuity is
// classified first, then the oracle suggestion (or template) is assembled,
// style overrides applied, consistency references wired, and the budget and
// time ladders walked.
func (p *Planner) BuildPlan(ctx context.Context, req PlanRequest) (*core.WorkflowPlan, error) {
	if len(req.Scenes) == 0 {
		return nil, core.ErrValidation("no_scenes", "at least one scene is required")
	}
	for i, scene := range req.Scenes {
		if scene.Number != i+1 {
			return nil, core.ErrValidation("scene_numbering",
				fmt.Sprintf("scene at position %d has number %d, want %d", i, scene.Number, i+1))
		}
	}

	quality := req.Constraints.QualityPreset
	if quality == "" {
		quality = core.QualityStandard
	}
	if !core.ValidQuality(quality) {
		return nil, core.ErrValidation("quality", fmt.Sprintf("unknown quality preset %q", quality))
	}
	style := req.Constraints.VideoStyle
	if style == "" {
		style = core.StyleCinematic
	}
	if !core.ValidStyle(style) {
		return nil, core.ErrValidation("style", fmt.Sprintf("unknown video style %q", style))
	}

	annotations := p.classifier.Classify(req.Scenes)
	groups := continuity.Groups(annotations)
	p.log.Debug("continuity classified", "summary", continuity.Summary(annotations))

	suggestion := p.suggest(ctx, req, style)
	plan := p.assemble(req.Scenes, annotations, suggestion, quality)
	plan.Groups = groups

	rule := p.styles.Rule(style)
	locked := p.enforceStyle(plan, req.Scenes, rule)
	p.wireReferences(plan, req.Scenes, groups, rule)
	plan.Recalculate(p.reg)

	p.applyBudget(plan, req.Constraints.MaxCost, locked)
	p.applyTime(plan, req.Constraints.MaxTime, locked)

	p.log.Info("plan assembled",
		"scenes", len(plan.ScenePlans),
		"groups", len(plan.Groups),
		"cost", plan.EstimatedCost,
		"time", plan.EstimatedTime,
		"warnings", len(plan.Warnings))
	return plan, nil
}

// suggest asks the oracle for a candidate plan. Any failure is logged and
// swallowed; planning continues on the template.
func (p *Planner) suggest(ctx context.Context, req PlanRequest, style core.VideoStyle) *core.PlanSuggestion {
	if p.oracle == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.oracleTimeout)
	defer cancel()

	suggestion, err := p.oracle.SuggestPlan(ctx, core.SuggestRequest{
		Topic:       req.Topic,
		Scenes:      req.Scenes,
		Catalog:     p.reg.CatalogView(),
		Constraints: req.Constraints,
		Style:       style,
	})
	if err != nil {
		p.log.Warn("oracle unavailable, using template plan", "error", core.ErrOracleUnavailable(err).Error())
		return nil
	}
	return suggestion
}

// assemble merges the oracle suggestion over the template defaults. Scenes
// the suggestion misses, and suggested tools that are unknown, wrongly typed
// or unavailable, fall back to the template pair slot by slot.
func (p *Planner) assemble(scenes []core.Scene, annotations []continuity.Annotation, suggestion *core.PlanSuggestion, quality core.QualityLevel) *core.WorkflowPlan {
	template := TemplateTools(quality)

	suggested := map[int]core.SuggestedScene{}
	reasoning := fmt.Sprintf("template plan (%s preset)", quality)
	if suggestion != nil {
		for _, s := range suggestion.Scenes {
			suggested[s.SceneNumber] = s
		}
		if suggestion.Reasoning != "" {
			reasoning = suggestion.Reasoning
		}
	}

	plan := &core.WorkflowPlan{
		QualityLevel: quality,
		Reasoning:    reasoning,
	}
	for i, scene := range scenes {
		sp := &core.ScenePlan{
			SceneNumber: scene.Number,
			Description: scene.Description,
			ImageTool:   template.ImageTool,
			VideoTool:   template.VideoTool,
			Reasoning:   "template default",
			GroupID:     annotations[i].GroupID,
			Transition:  annotations[i].Transition,
		}
		if s, ok := suggested[scene.Number]; ok {
			if p.usable(s.ImageTool, core.ToolTypeImage) {
				sp.ImageTool = s.ImageTool
			}
			if p.usable(s.VideoTool, core.ToolTypeVideo) {
				sp.VideoTool = s.VideoTool
			}
			if s.Reasoning != "" {
				sp.Reasoning = s.Reasoning
			}
		}
		plan.ScenePlans = append(plan.ScenePlans, sp)
	}
	plan.Recalculate(p.reg)
	return plan
}

func (p *Planner) usable(tool string, typ core.ToolType) bool {
	return p.reg.IsType(tool, typ) && p.reg.Available(tool)
}

// lockedSlots marks which tool slots of a scene are style-mandated and must
// survive downgrades.
type lockedSlots struct {
	Image bool
	Video bool
}

// enforceStyle unconditionally replaces tool choices with the style's
// mandates and returns the locked slots. Running it twice changes nothing.
func (p *Planner) enforceStyle(plan *core.WorkflowPlan, scenes []core.Scene, rule StyleRule) map[int]lockedSlots {
	locked := make(map[int]lockedSlots)

	for i, sp := range plan.ScenePlans {
		mandate := rule.For(scenes[i])
		lock := locked[sp.SceneNumber]

		if mandate.ImageTool != "" {
			if p.reg.Available(mandate.ImageTool) {
				if sp.ImageTool != mandate.ImageTool {
					p.log.Info("style override", "scene", sp.SceneNumber, "slot", "image",
						"from", sp.ImageTool, "to", mandate.ImageTool)
					sp.ImageTool = mandate.ImageTool
				}
				lock.Image = true
			} else {
				plan.Warn(core.KindToolUnavailable,
					fmt.Sprintf("style mandates %s for scene %d but it is unavailable", mandate.ImageTool, sp.SceneNumber))
			}
		}
		if mandate.VideoTool != "" {
			if p.reg.Available(mandate.VideoTool) {
				if sp.VideoTool != mandate.VideoTool {
					p.log.Info("style override", "scene", sp.SceneNumber, "slot", "video",
						"from", sp.VideoTool, "to", mandate.VideoTool)
					sp.VideoTool = mandate.VideoTool
				}
				lock.Video = true
			} else {
				plan.Warn(core.KindToolUnavailable,
					fmt.Sprintf("style mandates %s for scene %d but it is unavailable", mandate.VideoTool, sp.SceneNumber))
			}
		}
		locked[sp.SceneNumber] = lock
	}
	return locked
}

// wireReferences makes non-anchor scenes of multi-scene shot groups depend
// on their anchor's image artifact when the style asks for consistency.
func (p *Planner) wireReferences(plan *core.WorkflowPlan, scenes []core.Scene, groups []core.ShotGroup, rule StyleRule) {
	if !rule.CharacterConsistency {
		return
	}

	byNumber := make(map[int]core.Scene, len(scenes))
	for _, s := range scenes {
		byNumber[s.Number] = s
	}

	for _, group := range groups {
		if len(group.SceneNumbers) < 2 {
			continue
		}
		anchor := group.Anchor()
		for _, n := range group.SceneNumbers {
			if n == anchor {
				continue
			}
			if rule.ConsistencyHumanOnly && !byNumber[n].ContentType.IsHuman() {
				continue
			}
			if sp := plan.Scene(n); sp != nil {
				sp.ReferenceSceneNumber = anchor
			}
		}
	}
}

// applyBudget walks the cheaper ladders until the plan fits maxCost or no
// substitution remains. Style-locked slots are never touched. A negative
// maxCost means unconstrained; zero is a real zero budget.
func (p *Planner) applyBudget(plan *core.WorkflowPlan, maxCost float64, locked map[int]lockedSlots) {
	if maxCost < 0 || plan.EstimatedCost <= maxCost {
		return
	}
	p.log.Warn("plan exceeds budget, downgrading", "cost", plan.EstimatedCost, "max_cost", maxCost)

	fits := func() bool { return plan.EstimatedCost <= maxCost }
	p.walkLadders(plan, locked, CheaperVideo(), CheaperImage(), fits)

	if !fits() {
		plan.Warn(core.KindBudgetInfeasible,
			fmt.Sprintf("best-effort cost $%.2f still exceeds budget $%.2f", plan.EstimatedCost, maxCost))
		p.log.Warn("budget infeasible after downgrade", "cost", plan.EstimatedCost, "max_cost", maxCost)
	}
}

// applyTime is the symmetric ladder walk for the time ceiling. A negative
// maxTime means unconstrained.
func (p *Planner) applyTime(plan *core.WorkflowPlan, maxTime int, locked map[int]lockedSlots) {
	if maxTime < 0 || plan.EstimatedTime <= maxTime {
		return
	}
	p.log.Warn("plan exceeds time ceiling, downgrading", "time", plan.EstimatedTime, "max_time", maxTime)

	fits := func() bool { return plan.EstimatedTime <= maxTime }
	p.walkLadders(plan, locked, FasterVideo(), FasterImage(), fits)

	if !fits() {
		plan.Warn(core.KindTimeInfeasible,
			fmt.Sprintf("best-effort time %ds still exceeds ceiling %ds", plan.EstimatedTime, maxTime))
		p.log.Warn("time infeasible after downgrade", "time", plan.EstimatedTime, "max_time", maxTime)
	}
}

// walkLadders applies one ladder step at a time, video slots before image
// slots, recomputing aggregates from the registry after every substitution.
// It stops as soon as fits reports true or a full pass changes nothing.
func (p *Planner) walkLadders(plan *core.WorkflowPlan, locked map[int]lockedSlots, video, image Ladder, fits func() bool) {
	for {
		changed := false

		for _, sp := range plan.ScenePlans {
			if locked[sp.SceneNumber].Video {
				continue
			}
			next, ok := video.Next(sp.VideoTool)
			if !ok || !p.reg.Available(next) {
				continue
			}
			sp.VideoTool = next
			changed = true
			plan.Recalculate(p.reg)
			if fits() {
				return
			}
		}

		for _, sp := range plan.ScenePlans {
			if locked[sp.SceneNumber].Image {
				continue
			}
			next, ok := image.Next(sp.ImageTool)
			if !ok || !p.reg.Available(next) {
				continue
			}
			sp.ImageTool = next
			changed = true
			plan.Recalculate(p.reg)
			if fits() {
				return
			}
		}

		if !changed {
			return
		}
	}
}
