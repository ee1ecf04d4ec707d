package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reelforge/internal/core"
)

// catalogFile is the on-disk catalog shape.
type catalogFile struct {
	Tools []core.Tool `yaml:"tools"`
}

// LoadCatalog reads a YAML catalog file and merges it over the default
// catalog: listed tools replace their default entry (or add a new one),
// everything else keeps its default definition.
func LoadCatalog(path string) ([]core.Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	merged := map[string]core.Tool{}
	order := []string{}
	for _, t := range DefaultCatalog() {
		merged[t.Name] = t
		order = append(order, t.Name)
	}
	for _, t := range file.Tools {
		if err := validateTool(t); err != nil {
			return nil, err
		}
		if _, exists := merged[t.Name]; !exists {
			order = append(order, t.Name)
		}
		merged[t.Name] = t
	}

	out := make([]core.Tool, 0, len(order))
	for _, name := range order {
		out = append(out, merged[name])
	}
	return out, nil
}

func validateTool(t core.Tool) error {
	if t.Name == "" {
		return core.ErrValidation("EMPTY_TOOL_NAME", "catalog tool without a name")
	}
	if t.Type != core.ToolTypeImage && t.Type != core.ToolTypeVideo {
		return core.ErrValidation("BAD_TOOL_TYPE",
			fmt.Sprintf("tool %s has unknown type %q", t.Name, t.Type))
	}
	if t.Cost < 0 {
		return core.ErrValidation("NEGATIVE_COST",
			fmt.Sprintf("tool %s has negative cost", t.Name))
	}
	if t.LatencySeconds < 0 {
		return core.ErrValidation("NEGATIVE_LATENCY",
			fmt.Sprintf("tool %s has negative latency", t.Name))
	}
	return nil
}
