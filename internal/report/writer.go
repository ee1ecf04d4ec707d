// Package report renders plan and run summaries as markdown files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"reelforge/internal/core"
)

// Writer renders markdown reports into a directory. Files are written
// atomically so a crash never leaves a truncated report behind.
type Writer struct {
	dir string
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WritePlan renders the plan report and returns the file path.
func (w *Writer) WritePlan(topic string, plan *core.WorkflowPlan, cons core.Constraints) (string, error) {
	if plan == nil {
		return "", core.ErrValidation("report_plan", "plan must not be nil")
	}
	path := filepath.Join(w.dir, fmt.Sprintf("plan-%s.md", time.Now().Format("20060102-150405")))
	return path, w.write(path, renderPlan(topic, plan, cons))
}

// WriteRun renders the run report and returns the file path.
func (w *Writer) WriteRun(topic string, plan *core.WorkflowPlan, result *core.RunResult) (string, error) {
	if result == nil {
		return "", core.ErrValidation("report_run", "result must not be nil")
	}
	path := filepath.Join(w.dir, fmt.Sprintf("run-%s.md", result.RunID))
	return path, w.write(path, renderRun(topic, plan, result))
}

func (w *Writer) write(path, content string) error {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := renameio.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func renderPlan(topic string, plan *core.WorkflowPlan, cons core.Constraints) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Workflow Plan: %s\n\n", topic)
	fmt.Fprintf(&b, "- **Quality:** %s\n", plan.QualityLevel)
	if cons.VideoStyle != "" {
		fmt.Fprintf(&b, "- **Style:** %s\n", cons.VideoStyle)
	}
	fmt.Fprintf(&b, "- **Estimated cost:** $%.2f", plan.EstimatedCost)
	if cons.MaxCost >= 0 {
		fmt.Fprintf(&b, " (budget $%.2f)", cons.MaxCost)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Estimated time:** %s", formatSeconds(plan.EstimatedTime))
	if cons.MaxTime >= 0 {
		fmt.Fprintf(&b, " (limit %s)", formatSeconds(cons.MaxTime))
	}
	b.WriteString("\n\n")

	b.WriteString("## Scenes\n\n")
	b.WriteString("| # | Image Tool | Video Tool | Transition | Reference | Notes |\n")
	b.WriteString("|---|------------|------------|------------|-----------|-------|\n")
	for _, sp := range plan.ScenePlans {
		ref := "-"
		if sp.ReferenceSceneNumber != 0 {
			ref = fmt.Sprintf("scene %d", sp.ReferenceSceneNumber)
		}
		notes := sp.Reasoning
		if notes == "" {
			notes = "-"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			sp.SceneNumber, sp.ImageTool, sp.VideoTool, sp.Transition, ref, notes)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Image tools:** %s\n\n", strings.Join(plan.ImageTools, ", "))
	fmt.Fprintf(&b, "**Video tools:** %s\n", strings.Join(plan.VideoTools, ", "))

	if len(plan.Groups) > 0 {
		b.WriteString("\n## Shot Groups\n\n")
		for _, g := range plan.Groups {
			fmt.Fprintf(&b, "- Group %d: scenes %s\n", g.ID, joinInts(g.SceneNumbers))
		}
	}

	if len(plan.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, warn := range plan.Warnings {
			fmt.Fprintf(&b, "- **%s**: %s\n", warn.Kind, warn.Message)
		}
	}

	if plan.Reasoning != "" {
		fmt.Fprintf(&b, "\n## Reasoning\n\n%s\n", plan.Reasoning)
	}

	return b.String()
}

func renderRun(topic string, plan *core.WorkflowPlan, result *core.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run Report: %s\n\n", topic)
	fmt.Fprintf(&b, "- **Run ID:** %s\n", result.RunID)
	fmt.Fprintf(&b, "- **Started:** %s\n", result.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Duration:** %s\n", result.Duration.Round(time.Second))
	fmt.Fprintf(&b, "- **Scenes completed:** %d\n", len(result.Artifacts))
	fmt.Fprintf(&b, "- **Scenes failed:** %d\n\n", len(result.Failures))

	if len(result.Artifacts) > 0 {
		b.WriteString("## Artifacts\n\n")
		b.WriteString("| Scene | Image | Video |\n")
		b.WriteString("|-------|-------|-------|\n")
		for _, a := range result.Artifacts {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", a.SceneNumber, orDash(a.ImagePath), orDash(a.VideoPath))
		}
		b.WriteString("\n")
	}

	if len(result.Failures) > 0 {
		b.WriteString("## Failures\n\n")
		for _, f := range result.Failures {
			fmt.Fprintf(&b, "- Scene %d (%s stage): %v\n", f.SceneNumber, f.Stage, f.Err)
		}
		b.WriteString("\n")
	}

	if result.Log != nil {
		attempts := result.Log.Attempts()
		if len(attempts) > 0 {
			b.WriteString("## Attempt Log\n\n")
			b.WriteString("| Scene | Tool | Attempt | Status | Failure | Duration |\n")
			b.WriteString("|-------|------|---------|--------|---------|----------|\n")
			for _, a := range attempts {
				fmt.Fprintf(&b, "| %d | %s | %d | %s | %s | %s |\n",
					a.SceneNumber, a.Tool, a.AttemptNumber, a.Status,
					orDash(string(a.FailureKind)), a.Duration.Round(time.Millisecond))
			}
			b.WriteString("\n")
		}
	}

	if plan != nil {
		fmt.Fprintf(&b, "## Plan Summary\n\n")
		fmt.Fprintf(&b, "- Quality: %s\n", plan.QualityLevel)
		fmt.Fprintf(&b, "- Estimated cost: $%.2f\n", plan.EstimatedCost)
		fmt.Fprintf(&b, "- Estimated time: %s\n", formatSeconds(plan.EstimatedTime))
	}

	return b.String()
}

func formatSeconds(s int) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
