package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reelforge/internal/core"
	"reelforge/internal/planner"
	"reelforge/internal/report"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a workflow plan without executing it",
	Long: `Build a per-scene tool assignment from a scene file, applying the style
preset's hard constraints and downgrading tools until the plan fits the
budget and time ceilings. The plan is printed and optionally written as
a markdown report.`,
	RunE: runPlanCmd,
}

var (
	planScenes string
	planTopic  string
	planFlags  constraintFlags
	planOut    bool
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&planScenes, "scenes", "s", "", "scene file (YAML)")
	planCmd.Flags().StringVarP(&planTopic, "topic", "t", "", "video topic (default: from scene file)")
	planCmd.Flags().Float64Var(&planFlags.maxCost, "max-cost", 0, "maximum budget in dollars (-1 for unlimited)")
	planCmd.Flags().IntVar(&planFlags.maxTime, "max-time", 0, "maximum generation time in seconds (-1 for unlimited)")
	planCmd.Flags().StringVar(&planFlags.quality, "preset", "", "quality preset (budget, standard, premium, viral)")
	planCmd.Flags().StringVar(&planFlags.style, "style", "", "video style (character, cinematic, pika, hybrid)")
	planCmd.Flags().BoolVar(&planOut, "out", false, "write a markdown plan report")
	_ = planCmd.MarkFlagRequired("scenes")
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	planFlags.maxCostSet = cmd.Flags().Changed("max-cost")
	planFlags.maxTimeSet = cmd.Flags().Changed("max-time")

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	script, err := loadScript(planScenes)
	if err != nil {
		return err
	}
	topic, plan, cons, err := buildWorkflowPlan(ctx, script, planTopic, &planFlags)
	if err != nil {
		return err
	}

	printPlan(cmd, topic, plan, cons)

	if planOut {
		path, err := report.NewWriter(cfg.Output.ReportsDir).WritePlan(topic, plan, cons)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", path)
	}
	return nil
}

// buildWorkflowPlan is the planning path shared by plan and run.
func buildWorkflowPlan(ctx context.Context, script *scriptFile, topic string, flags *constraintFlags) (string, *core.WorkflowPlan, core.Constraints, error) {
	if topic == "" {
		topic = script.Topic
	}

	reg, err := buildRegistry()
	if err != nil {
		return "", nil, core.Constraints{}, err
	}
	p, err := buildPlanner(reg)
	if err != nil {
		return "", nil, core.Constraints{}, err
	}

	cons := resolveConstraints(flags, script)
	plan, err := p.BuildPlan(ctx, planner.PlanRequest{
		Topic:       topic,
		Scenes:      script.Scenes,
		Constraints: cons,
	})
	if err != nil {
		return "", nil, core.Constraints{}, err
	}
	return topic, plan, cons, nil
}

func printPlan(cmd *cobra.Command, topic string, plan *core.WorkflowPlan, cons core.Constraints) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Plan for %q (%s quality", topic, plan.QualityLevel)
	if cons.VideoStyle != "" {
		fmt.Fprintf(out, ", %s style", cons.VideoStyle)
	}
	fmt.Fprintln(out, ")")

	for _, sp := range plan.ScenePlans {
		fmt.Fprintf(out, "  scene %d: %s -> %s (%s)", sp.SceneNumber, sp.ImageTool, sp.VideoTool, sp.Transition)
		if sp.ReferenceSceneNumber != 0 {
			fmt.Fprintf(out, " [ref scene %d]", sp.ReferenceSceneNumber)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Estimated cost: $%.2f", plan.EstimatedCost)
	if cons.MaxCost >= 0 {
		fmt.Fprintf(out, " / $%.2f", cons.MaxCost)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Estimated time: %ds", plan.EstimatedTime)
	if cons.MaxTime >= 0 {
		fmt.Fprintf(out, " / %ds", cons.MaxTime)
	}
	fmt.Fprintln(out)

	for _, w := range plan.Warnings {
		fmt.Fprintf(out, "Warning [%s]: %s\n", w.Kind, w.Message)
	}
}
