package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reelforge/internal/executor"
	"reelforge/internal/report"
	"reelforge/internal/runlog"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Plan and execute a workflow",
	Long: `Build a workflow plan and execute it scene by scene. Scenes without a
reference dependency run first in parallel; dependent scenes follow once
their reference image exists. Each tool call walks its fallback chain on
failure. Artifacts are simulated placeholders until vendor adapters are
wired in; use --dry-run to stop after planning.`,
	RunE: runRunCmd,
}

var (
	runScenes  string
	runTopic   string
	runFlags   constraintFlags
	runDryRun  bool
	runWorkers int
	runKeepOn  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runScenes, "scenes", "s", "", "scene file (YAML)")
	runCmd.Flags().StringVarP(&runTopic, "topic", "t", "", "video topic (default: from scene file)")
	runCmd.Flags().Float64Var(&runFlags.maxCost, "max-cost", 0, "maximum budget in dollars (-1 for unlimited)")
	runCmd.Flags().IntVar(&runFlags.maxTime, "max-time", 0, "maximum generation time in seconds (-1 for unlimited)")
	runCmd.Flags().StringVar(&runFlags.quality, "preset", "", "quality preset (budget, standard, premium, viral)")
	runCmd.Flags().StringVar(&runFlags.style, "style", "", "video style (character, cinematic, pika, hybrid)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "plan only, do not execute")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "parallel scene workers (default: from config)")
	runCmd.Flags().BoolVar(&runKeepOn, "continue-on-fail", false, "keep executing remaining scenes after a scene fails")
	_ = runCmd.MarkFlagRequired("scenes")
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	runFlags.maxCostSet = cmd.Flags().Changed("max-cost")
	runFlags.maxTimeSet = cmd.Flags().Changed("max-time")

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	script, err := loadScript(runScenes)
	if err != nil {
		return err
	}

	topic, plan, cons, err := buildWorkflowPlan(ctx, script, runTopic, &runFlags)
	if err != nil {
		return err
	}
	printPlan(cmd, topic, plan, cons)

	if runDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "\nDry run, stopping before execution.")
		return nil
	}

	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	engine := executor.NewEngine(reg,
		executor.NewSimulated(reg, executor.WithArtifactDir(cfg.Output.Dir)),
		executor.WithEngineLogger(log),
		executor.WithMaxAttempts(cfg.Executor.MaxAttempts),
		executor.WithTimeoutSlack(cfg.Executor.TimeoutSlack),
	)

	runnerOpts := []executor.RunnerOption{
		executor.WithRunnerLogger(log),
		executor.WithWorkers(cfg.Executor.Workers),
		executor.WithContinueOnSceneFailure(cfg.Executor.ContinueOnFail || runKeepOn),
	}
	if runWorkers > 0 {
		runnerOpts = append(runnerOpts, executor.WithWorkers(runWorkers))
	}

	var store *runlog.Store
	if cfg.Runlog.Path != "" {
		store, err = runlog.Open(cfg.Runlog.Path)
		if err != nil {
			log.Warn("run archive unavailable", "error", err)
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, executor.WithRunStore(store))
		}
	}

	runner := executor.NewRunner(engine, runnerOpts...)
	result, err := runner.RunPlan(ctx, executor.RunRequest{
		Topic:  topic,
		Style:  cons.VideoStyle,
		Plan:   plan,
		Scenes: script.Scenes,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRun %s finished in %s: %d scene(s) completed, %d failed\n",
		result.RunID, result.Duration.Round(time.Second), len(result.Artifacts), len(result.Failures))
	for _, f := range result.Failures {
		fmt.Fprintf(out, "  scene %d failed at %s stage: %v\n", f.SceneNumber, f.Stage, f.Err)
	}

	path, err := report.NewWriter(cfg.Output.ReportsDir).WriteRun(topic, plan, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Report written to %s\n", path)
	return nil
}
