package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"reelforge/internal/core"
	"reelforge/internal/oracle"
	"reelforge/internal/planner"
	"reelforge/internal/registry"
)

// scriptFile is the on-disk scene list handed to plan and run.
type scriptFile struct {
	Topic   string       `yaml:"topic"`
	Style   string       `yaml:"style"`
	Quality string       `yaml:"quality"`
	Scenes  []core.Scene `yaml:"scenes"`
}

func loadScript(path string) (*scriptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	var script scriptFile
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parsing scene file %s: %w", path, err)
	}
	if len(script.Scenes) == 0 {
		return nil, core.ErrValidation("script", fmt.Sprintf("%s contains no scenes", path))
	}
	return &script, nil
}

func buildRegistry() (*registry.Registry, error) {
	if cfg.Catalog.Path == "" {
		return registry.New(), nil
	}
	tools, err := registry.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	return registry.New(registry.WithCatalog(tools)), nil
}

func buildPlanner(reg *registry.Registry) (*planner.Planner, error) {
	opts := []planner.Option{planner.WithLogger(log)}

	styles := planner.DefaultStyleRules()
	if cfg.Catalog.StylesPath != "" {
		loaded, err := planner.LoadStyleRules(cfg.Catalog.StylesPath)
		if err != nil {
			return nil, err
		}
		styles = loaded
	}
	opts = append(opts, planner.WithStyles(styles))

	if cfg.Oracle.Enabled && cfg.Oracle.APIKey != "" {
		oracleOpts := []oracle.ClientOption{
			oracle.WithModel(cfg.Oracle.Model),
			oracle.WithTemperature(cfg.Oracle.Temperature),
			oracle.WithLogger(log),
		}
		if cfg.Oracle.BaseURL != "" {
			oracleOpts = append(oracleOpts, oracle.WithBaseURL(cfg.Oracle.APIKey, cfg.Oracle.BaseURL))
		}
		client, err := oracle.New(cfg.Oracle.APIKey, oracleOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, planner.WithOracle(client))

		if timeout, err := time.ParseDuration(cfg.Oracle.Timeout); err == nil {
			opts = append(opts, planner.WithOracleTimeout(timeout))
		}
	} else {
		log.Debug("oracle disabled, planning from templates only",
			"enabled", cfg.Oracle.Enabled, "has_key", cfg.Oracle.APIKey != "")
	}

	return planner.New(reg, opts...), nil
}

// resolveConstraints merges script values, config defaults and explicit
// flags. A flag the user set always wins.
func resolveConstraints(c *constraintFlags, script *scriptFile) core.Constraints {
	cons := core.Constraints{
		MaxCost:       cfg.Defaults.MaxCost,
		MaxTime:       int(cfg.Defaults.MaxTime),
		QualityPreset: core.QualityLevel(cfg.Defaults.Quality),
		VideoStyle:    core.VideoStyle(cfg.Defaults.Style),
	}
	if script.Quality != "" {
		cons.QualityPreset = core.QualityLevel(script.Quality)
	}
	if script.Style != "" {
		cons.VideoStyle = core.VideoStyle(script.Style)
	}
	if c.maxCostSet {
		cons.MaxCost = c.maxCost
	}
	if c.maxTimeSet {
		cons.MaxTime = c.maxTime
	}
	if c.quality != "" {
		cons.QualityPreset = core.QualityLevel(c.quality)
	}
	if c.style != "" {
		cons.VideoStyle = core.VideoStyle(c.style)
	}
	return cons
}

// constraintFlags are the planning flags shared by plan and run.
type constraintFlags struct {
	maxCost    float64
	maxCostSet bool
	maxTime    int
	maxTimeSet bool
	quality    string
	style      string
}
