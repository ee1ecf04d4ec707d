package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelforge/internal/core"
)

func samplePlan() *core.WorkflowPlan {
	return &core.WorkflowPlan{
		ScenePlans: []*core.ScenePlan{
			{SceneNumber: 1, ImageTool: "midjourney", VideoTool: "pika_v2", Transition: core.TransitionCut, Reasoning: "opening scene"},
			{SceneNumber: 2, ImageTool: "seedream4", VideoTool: "pika_v2", Transition: core.TransitionMorph, ReferenceSceneNumber: 1},
		},
		ImageTools:    []string{"midjourney", "seedream4"},
		VideoTools:    []string{"pika_v2"},
		EstimatedCost: 0.39,
		EstimatedTime: 570,
		QualityLevel:  core.QualityStandard,
		Groups:        []core.ShotGroup{{ID: 1, SceneNumbers: []int{1, 2}}},
	}
}

func TestWriter_WritePlan(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	plan := samplePlan()
	plan.Warn(core.KindBudgetInfeasible, "plan exceeds budget after all downgrades")

	path, err := w.WritePlan("coffee ritual", plan, core.Constraints{
		MaxCost:    0.30,
		MaxTime:    core.Unconstrained,
		VideoStyle: core.StylePika,
	})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	for _, want := range []string{
		"# Workflow Plan: coffee ritual",
		"**Style:** pika",
		"$0.39 (budget $0.30)",
		"| 1 | midjourney | pika_v2 | cut | - | opening scene |",
		"| 2 | seedream4 | pika_v2 | morph | scene 1 | - |",
		"Group 1: scenes 1, 2",
		"**budget_infeasible**",
	} {
		assert.Contains(t, content, want)
	}

	// MaxTime is unconstrained, so no limit is printed.
	assert.NotContains(t, content, "(limit")
}

func TestWriter_WritePlan_NilPlan(t *testing.T) {
	w := NewWriter(t.TempDir())
	_, err := w.WritePlan("x", nil, core.Constraints{})
	assert.True(t, core.IsKind(err, core.KindValidation))
}

func TestWriter_WriteRun(t *testing.T) {
	w := NewWriter(t.TempDir())

	log := core.NewExecutionLog()
	log.Append(core.ExecutionAttempt{SceneNumber: 1, Tool: "midjourney", Status: core.AttemptSuccess, AttemptNumber: 1, Duration: 2 * time.Second})
	log.Append(core.ExecutionAttempt{SceneNumber: 2, Tool: "pika_v2", Status: core.AttemptFailed, FailureKind: core.FailureTransient, AttemptNumber: 1, Duration: 800 * time.Millisecond})

	result := &core.RunResult{
		RunID: "run-42",
		Artifacts: []core.SceneArtifact{
			{SceneNumber: 1, ImagePath: "out/img1.png", VideoPath: "out/vid1.mp4"},
		},
		Failures: []core.SceneFailure{
			{SceneNumber: 2, Stage: "video", Err: errors.New("all tools failed")},
		},
		Log:       log,
		StartedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Duration:  95 * time.Second,
	}

	path, err := w.WriteRun("coffee ritual", samplePlan(), result)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "run-42")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	for _, want := range []string{
		"# Run Report: coffee ritual",
		"**Run ID:** run-42",
		"**Scenes completed:** 1",
		"**Scenes failed:** 1",
		"| 1 | out/img1.png | out/vid1.mp4 |",
		"Scene 2 (video stage): all tools failed",
		"| 2 | pika_v2 | 1 | failed | transient_error |",
		"## Plan Summary",
		"Estimated time: 9m30s",
	} {
		assert.Contains(t, content, want)
	}
}

func TestWriter_WriteRun_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	w := NewWriter(dir)

	result := &core.RunResult{RunID: "run-1", StartedAt: time.Now()}
	path, err := w.WriteRun("x", nil, result)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "45s", formatSeconds(45))
	assert.Equal(t, "1m00s", formatSeconds(60))
	assert.Equal(t, "9m30s", formatSeconds(570))
}
