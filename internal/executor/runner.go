package executor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"reelforge/internal/core"
	"reelforge/internal/logging"
)

const defaultWorkers = 3

// Runner executes a whole workflow plan in two waves: scenes without a
// reference dependency run concurrently first, then scenes waiting on a
// reference image artifact.
type Runner struct {
	engine         *Engine
	log            *logging.Logger
	workers        int
	continueOnFail bool
	store          core.RunStore
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers bounds per-wave concurrency.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithContinueOnSceneFailure keeps the run going when a scene exhausts its
// fallback chain instead of aborting the whole run.
func WithContinueOnSceneFailure(v bool) RunnerOption {
	return func(r *Runner) { r.continueOnFail = v }
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(log *logging.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// WithRunStore archives finished runs. A nil store disables archiving.
func WithRunStore(store core.RunStore) RunnerOption {
	return func(r *Runner) { r.store = store }
}

// NewRunner creates a plan runner over a fallback engine.
func NewRunner(engine *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:  engine,
		log:     logging.NewNop(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunRequest carries the inputs to plan execution.
type RunRequest struct {
	Topic  string
	Style  core.VideoStyle
	Plan   *core.WorkflowPlan
	Scenes []core.Scene
}

// RunPlan executes every scene of the plan. Grouping and transitions were
// fixed at planning time and are never revised here. The returned result
// carries the full attempt log.
func (r *Runner) RunPlan(ctx context.Context, req RunRequest) (*core.RunResult, error) {
	if req.Plan == nil || len(req.Plan.ScenePlans) == 0 {
		return nil, core.ErrValidation("empty_plan", "plan has no scenes")
	}

	runID := uuid.NewString()
	log := r.log.WithRun(runID)
	start := time.Now()
	execLog := core.NewExecutionLog()

	scenes := make(map[int]core.Scene, len(req.Scenes))
	for _, s := range req.Scenes {
		scenes[s.Number] = s
	}

	var wave1, wave2 []*core.ScenePlan
	for _, sp := range req.Plan.ScenePlans {
		if sp.ReferenceSceneNumber == 0 {
			wave1 = append(wave1, sp)
		} else {
			wave2 = append(wave2, sp)
		}
	}
	log.Info("run started",
		"scenes", len(req.Plan.ScenePlans),
		"independent", len(wave1),
		"dependent", len(wave2),
		"workers", r.workers)

	state := &runState{
		images: make(map[int]string),
		videos: make(map[int]string),
	}

	if err := r.runWave(ctx, wave1, scenes, execLog, state, log); err != nil {
		return nil, err
	}
	if err := r.runWave(ctx, wave2, scenes, execLog, state, log); err != nil {
		return nil, err
	}

	result := &core.RunResult{
		RunID:     runID,
		Artifacts: state.artifacts(req.Plan),
		Failures:  state.failures,
		Log:       execLog,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	log.Info("run finished",
		"artifacts", len(result.Artifacts),
		"failures", len(result.Failures),
		"attempts", execLog.Len(),
		"duration", result.Duration)

	r.archive(ctx, runID, req, execLog, log)
	return result, nil
}

// runState is the shared mutable state of one run: produced artifact paths
// and collected scene failures.
type runState struct {
	mu       sync.Mutex
	images   map[int]string
	videos   map[int]string
	failures []core.SceneFailure
}

func (s *runState) setImage(scene int, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[scene] = path
}

func (s *runState) image(scene int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.images[scene]
	return p, ok
}

func (s *runState) setVideo(scene int, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[scene] = path
}

func (s *runState) fail(f core.SceneFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, f)
}

// artifacts assembles the per-scene artifact list in plan order, skipping
// scenes that produced nothing.
func (s *runState) artifacts(plan *core.WorkflowPlan) []core.SceneArtifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.SceneArtifact
	for _, sp := range plan.ScenePlans {
		img := s.images[sp.SceneNumber]
		vid := s.videos[sp.SceneNumber]
		if img == "" && vid == "" {
			continue
		}
		out = append(out, core.SceneArtifact{
			SceneNumber: sp.SceneNumber,
			ImagePath:   img,
			VideoPath:   vid,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SceneNumber < out[j].SceneNumber })
	return out
}

func (r *Runner) runWave(ctx context.Context, wave []*core.ScenePlan, scenes map[int]core.Scene, execLog *core.ExecutionLog, state *runState, log *logging.Logger) error {
	if len(wave) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, r.workers)

	for _, sp := range wave {
		sp := sp
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			stage, err := r.runScene(ctx, sp, scenes[sp.SceneNumber], execLog, state, log)
			if err == nil {
				return nil
			}
			if r.continueOnFail && ctx.Err() == nil {
				log.Warn("scene failed, continuing run",
					"scene", sp.SceneNumber, "stage", stage, "error", err.Error())
				state.fail(core.SceneFailure{SceneNumber: sp.SceneNumber, Stage: stage, Err: err})
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// runScene generates the scene's image, records its path for dependents,
// then animates it.
func (r *Runner) runScene(ctx context.Context, sp *core.ScenePlan, scene core.Scene, execLog *core.ExecutionLog, state *runState, log *logging.Logger) (string, error) {
	prompt := scene.Description
	if prompt == "" {
		prompt = sp.Description
	}

	input := map[string]any{
		"prompt":       prompt,
		"scene_number": sp.SceneNumber,
	}
	if scene.StartPrompt != "" {
		input["start_prompt"] = scene.StartPrompt
		input["end_prompt"] = scene.EndPrompt
	}
	if sp.ReferenceSceneNumber != 0 {
		if ref, ok := state.image(sp.ReferenceSceneNumber); ok && ref != "" {
			input["reference_image"] = ref
		} else {
			// The anchor produced nothing; generate without the reference
			// rather than fail a scene whose own tools are healthy.
			log.Warn("reference image missing, generating without it",
				"scene", sp.SceneNumber, "reference", sp.ReferenceSceneNumber)
		}
	}

	imgRes, err := r.engine.ExecuteWithFallback(ctx, sp.SceneNumber, sp.ImageTool, input, execLog)
	if err != nil {
		return "image", err
	}
	state.setImage(sp.SceneNumber, imgRes.ArtifactPath())

	vidInput := map[string]any{
		"prompt":       prompt,
		"image_path":   imgRes.ArtifactPath(),
		"scene_number": sp.SceneNumber,
		"transition":   string(sp.Transition),
	}
	vidRes, err := r.engine.ExecuteWithFallback(ctx, sp.SceneNumber, sp.VideoTool, vidInput, execLog)
	if err != nil {
		return "video", err
	}
	state.setVideo(sp.SceneNumber, vidRes.ArtifactPath())
	return "", nil
}

// archive persists the run record. Archiving failures never fail the run.
func (r *Runner) archive(ctx context.Context, runID string, req RunRequest, execLog *core.ExecutionLog, log *logging.Logger) {
	if r.store == nil {
		return
	}
	rec := &core.RunRecord{
		ID:            runID,
		Topic:         req.Topic,
		Style:         req.Style,
		Quality:       req.Plan.QualityLevel,
		SceneCount:    len(req.Plan.ScenePlans),
		EstimatedCost: req.Plan.EstimatedCost,
		EstimatedTime: req.Plan.EstimatedTime,
		CreatedAt:     time.Now().UTC(),
		Attempts:      execLog.Attempts(),
	}
	if err := r.store.SaveRun(ctx, rec); err != nil {
		log.Warn("failed to archive run", "error", err.Error())
	}
}
