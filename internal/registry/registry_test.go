package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelforge/internal/core"
)

// envWith returns an EnvFunc where only the given variables are set.
func envWith(vars ...string) EnvFunc {
	set := map[string]bool{}
	for _, v := range vars {
		set[v] = true
	}
	return func(key string) string {
		if set[key] {
			return "credential"
		}
		return ""
	}
}

func TestLookup(t *testing.T) {
	reg := New(WithEnv(envWith()))

	tool, err := reg.Lookup("luma_ray")
	require.NoError(t, err)
	assert.Equal(t, core.ToolTypeVideo, tool.Type)
	assert.Equal(t, 0.15, tool.Cost)

	_, err = reg.Lookup("nonexistent")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindNotFound))
}

func TestListByType_SortedAndComplete(t *testing.T) {
	reg := New(WithEnv(envWith()))

	images := reg.ListByType(core.ToolTypeImage)
	require.Len(t, images, 6)
	for i := 1; i < len(images); i++ {
		assert.Less(t, images[i-1].Name, images[i].Name)
	}

	videos := reg.ListByType(core.ToolTypeVideo)
	require.Len(t, videos, 6)
}

func TestAvailability_CredentialGating(t *testing.T) {
	reg := New(WithEnv(envWith(EnvReplicate)))

	assert.True(t, reg.Available("flux_dev"))
	assert.True(t, reg.Available("luma_ray"))
	assert.False(t, reg.Available("midjourney"), "apiframe credential missing")
	assert.False(t, reg.Available("runway_gen4_turbo"))
	assert.False(t, reg.Available("pika_v2"))
	assert.True(t, reg.Available("ken_burns"), "local tool needs no credential")
	assert.False(t, reg.Available("nonexistent"))
}

func TestFallbackChainFor_FiltersUnavailable(t *testing.T) {
	// Only replicate credentials: runway's chain loses nothing replicate-side
	// but pika_v2 is filtered out of luma_ray's chain.
	reg := New(WithEnv(envWith(EnvReplicate)))

	chain := reg.FallbackChainFor("luma_ray")
	names := toolNames(chain)
	assert.Equal(t, []string{"wan_i2v"}, names, "pika_v2 requires FAL_KEY")
}

func TestFallbackChainFor_NeverContainsSelfOrDuplicates(t *testing.T) {
	reg := New(
		WithEnv(envWith(EnvReplicate)),
		WithCatalog([]core.Tool{
			{Name: "a", Type: core.ToolTypeVideo, FallbackChain: []string{"a", "b", "b", "c"}},
			{Name: "b", Type: core.ToolTypeVideo},
			{Name: "c", Type: core.ToolTypeVideo},
		}),
	)

	names := toolNames(reg.FallbackChainFor("a"))
	assert.Equal(t, []string{"b", "c"}, names)
}

func TestFallbackChainFor_UnknownTool(t *testing.T) {
	reg := New(WithEnv(envWith()))
	assert.Empty(t, reg.FallbackChainFor("nonexistent"))
}

func TestCatalogView_AvailableOnly(t *testing.T) {
	reg := New(WithEnv(envWith(EnvReplicate, EnvFal)))

	view := reg.CatalogView()
	for _, tool := range append(view.ImageTools, view.VideoTools...) {
		assert.True(t, reg.Available(tool.Name), "catalog view leaked unavailable tool %s", tool.Name)
	}
	assert.NotContains(t, toolNames(view.ImageTools), "midjourney")
	assert.Contains(t, toolNames(view.VideoTools), "pika_v2")
	assert.Contains(t, toolNames(view.VideoTools), "ken_burns")
}

func TestPrice(t *testing.T) {
	reg := New(WithEnv(envWith()))

	cost, latency, ok := reg.Price("minimax_hailuo")
	require.True(t, ok)
	assert.Equal(t, 0.30, cost)
	assert.Equal(t, 180, latency)

	_, _, ok = reg.Price("nonexistent")
	assert.False(t, ok)
}

func TestDefaultCatalog_ChainsReferenceKnownTools(t *testing.T) {
	reg := New(WithEnv(envWith()))
	for _, tool := range DefaultCatalog() {
		for _, alt := range tool.FallbackChain {
			assert.True(t, reg.Known(alt), "%s falls back to unknown tool %s", tool.Name, alt)
			fb, err := reg.Lookup(alt)
			require.NoError(t, err)
			assert.Equal(t, tool.Type, fb.Type, "%s falls back across tool types to %s", tool.Name, alt)
		}
	}
}

func TestLoadCatalog_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `tools:
  - name: luma_ray
    type: video_generation
    cost: 0.20
    latency_seconds: 140
    credential_env: REPLICATE_API_TOKEN
    provider: replicate
  - name: veo31_flf2v
    type: video_generation
    cost: 0.80
    latency_seconds: 180
    credential_env: FAL_KEY
    provider: fal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tools, err := LoadCatalog(path)
	require.NoError(t, err)

	reg := New(WithCatalog(tools), WithEnv(envWith(EnvFal)))
	luma, err := reg.Lookup("luma_ray")
	require.NoError(t, err)
	assert.Equal(t, 0.20, luma.Cost, "overlay must replace the default entry")

	veo, err := reg.Lookup("veo31_flf2v")
	require.NoError(t, err)
	assert.True(t, reg.Available(veo.Name))
	assert.True(t, reg.Known("flux_dev"), "defaults must survive the merge")
}

func TestLoadCatalog_RejectsBadTools(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  - name: broken\n    type: teleporter\n"), 0o600))

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindValidation))
}

func toolNames(tools []core.Tool) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Name)
	}
	return out
}
