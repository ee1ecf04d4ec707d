package registry

import "reelforge/internal/core"

// Provider names used for per-vendor rate limiting.
const (
	ProviderReplicate = "replicate"
	ProviderApiframe  = "apiframe"
	ProviderRunway    = "runway"
	ProviderFal       = "fal"
	ProviderLocal     = "local"
)

// Credential environment variables gating tool availability.
const (
	EnvReplicate = "REPLICATE_API_TOKEN"
	EnvApiframe  = "APIFRAME_API_KEY"
	EnvRunway    = "RUNWAY_API_KEY"
	EnvFal       = "FAL_KEY"
)

// DefaultCatalog returns the static production tool table. Costs are USD per
// invocation, latency is the expected wall time of one generation.
func DefaultCatalog() []core.Tool {
	return []core.Tool{
		// Image generation.
		{
			Name:           "midjourney",
			Type:           core.ToolTypeImage,
			Cost:           0.05,
			LatencySeconds: 300,
			CapabilityTags: []string{"cinematic", "dramatic", "hero_shots", "premium", "opening_frames"},
			FallbackChain:  []string{"flux_pro", "flux_dev", "flux_schnell"},
			CredentialEnv:  EnvApiframe,
			Provider:       ProviderApiframe,
		},
		{
			Name:           "flux_schnell",
			Type:           core.ToolTypeImage,
			Cost:           0.02,
			LatencySeconds: 10,
			CapabilityTags: []string{"fast", "budget", "general"},
			FallbackChain:  nil,
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},
		{
			Name:           "flux_dev",
			Type:           core.ToolTypeImage,
			Cost:           0.03,
			LatencySeconds: 30,
			CapabilityTags: []string{"standard", "detailed", "balanced"},
			FallbackChain:  []string{"flux_schnell"},
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},
		{
			Name:           "flux_pro",
			Type:           core.ToolTypeImage,
			Cost:           0.04,
			LatencySeconds: 25,
			CapabilityTags: []string{"premium", "professional", "high_detail"},
			FallbackChain:  []string{"flux_dev", "flux_schnell"},
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},
		{
			Name:           "seedream4",
			Type:           core.ToolTypeImage,
			Cost:           0.04,
			LatencySeconds: 30,
			CapabilityTags: []string{"character", "person", "consistency", "reference"},
			FallbackChain:  []string{"flux_dev", "flux_schnell"},
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},
		{
			Name:           "ideogram",
			Type:           core.ToolTypeImage,
			Cost:           0.02,
			LatencySeconds: 15,
			CapabilityTags: []string{"text", "typography", "quotes"},
			FallbackChain:  []string{"flux_dev"},
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},

		// Video animation.
		{
			Name:           "runway_gen4_turbo",
			Type:           core.ToolTypeVideo,
			Cost:           0.25,
			LatencySeconds: 90,
			CapabilityTags: []string{"premium", "products", "high_end"},
			FallbackChain:  []string{"luma_ray", "minimax_hailuo", "wan_i2v"},
			CredentialEnv:  EnvRunway,
			Provider:       ProviderRunway,
		},
		{
			Name:           "pika_v2",
			Type:           core.ToolTypeVideo,
			Cost:           0.15,
			LatencySeconds: 120,
			CapabilityTags: []string{"morphs", "transitions", "creative_effects"},
			FallbackChain:  []string{"luma_ray", "wan_i2v"},
			CredentialEnv:  EnvFal,
			Provider:       ProviderFal,
		},
		{
			Name:           "minimax_hailuo",
			Type:           core.ToolTypeVideo,
			Cost:           0.30,
			LatencySeconds: 180,
			CapabilityTags: []string{"humans", "characters", "gestures", "emotions"},
			FallbackChain:  []string{"luma_ray", "wan_i2v"},
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},
		{
			Name:           "luma_ray",
			Type:           core.ToolTypeVideo,
			Cost:           0.15,
			LatencySeconds: 150,
			CapabilityTags: []string{"universal", "standard", "reliable"},
			FallbackChain:  []string{"pika_v2", "wan_i2v"},
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},
		{
			Name:           "wan_i2v",
			Type:           core.ToolTypeVideo,
			Cost:           0.08,
			LatencySeconds: 60,
			CapabilityTags: []string{"budget", "fast", "basic_animation"},
			FallbackChain:  []string{"ken_burns"},
			CredentialEnv:  EnvReplicate,
			Provider:       ProviderReplicate,
		},
		{
			Name:           "ken_burns",
			Type:           core.ToolTypeVideo,
			Cost:           0,
			LatencySeconds: 1,
			CapabilityTags: []string{"budget", "fast", "pan_zoom"},
			FallbackChain:  nil,
			CredentialEnv:  "", // local effect, always available
			Provider:       ProviderLocal,
		},
	}
}
