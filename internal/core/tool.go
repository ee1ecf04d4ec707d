package core

// ToolType separates image generators from video animators.
type ToolType string

const (
	ToolTypeImage ToolType = "image_generation"
	ToolTypeVideo ToolType = "video_generation"
)

// Tool describes one external generation capability. Tools are loaded once at
// startup and owned by the registry; treat values as immutable.
type Tool struct {
	Name           string   `yaml:"name" json:"name"`
	Type           ToolType `yaml:"type" json:"type"`
	Cost           float64  `yaml:"cost" json:"cost"`
	LatencySeconds int      `yaml:"latency_seconds" json:"latency_seconds"`
	CapabilityTags []string `yaml:"capability_tags" json:"capability_tags"`

	// FallbackChain lists alternative tool names, most-preferred first.
	FallbackChain []string `yaml:"fallback_chain" json:"fallback_chain"`

	// CredentialEnv names the environment variable whose presence makes the
	// tool available. Empty means always available (local tools).
	CredentialEnv string `yaml:"credential_env" json:"credential_env"`

	// Provider identifies the vendor, used for per-vendor rate limiting.
	Provider string `yaml:"provider" json:"provider"`
}

// HasTag reports whether the tool carries the given capability tag.
func (t Tool) HasTag(tag string) bool {
	for _, have := range t.CapabilityTags {
		if have == tag {
			return true
		}
	}
	return false
}

// ToolCatalogView is the subset of the registry shown to the advisory
// oracle: available tools only, split by type.
type ToolCatalogView struct {
	ImageTools []Tool
	VideoTools []Tool
}
