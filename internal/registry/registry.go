// Package registry holds the static tool capability table and answers
// availability, pricing and fallback-chain queries against it.
package registry

import (
	"os"
	"sort"

	"reelforge/internal/core"
)

// EnvFunc resolves an environment variable. Injected so tests do not depend
// on the process environment.
type EnvFunc func(key string) string

// Registry is the immutable tool capability table, loaded once at startup.
type Registry struct {
	tools map[string]core.Tool
	env   EnvFunc
}

// Option configures a Registry.
type Option func(*Registry)

// WithEnv overrides the environment lookup used for availability checks.
func WithEnv(fn EnvFunc) Option {
	return func(r *Registry) { r.env = fn }
}

// WithCatalog replaces the default catalog.
func WithCatalog(tools []core.Tool) Option {
	return func(r *Registry) {
		r.tools = make(map[string]core.Tool, len(tools))
		for _, t := range tools {
			r.tools[t.Name] = t
		}
	}
}

// New creates a registry over the default catalog.
func New(opts ...Option) *Registry {
	r := &Registry{env: os.Getenv}
	WithCatalog(DefaultCatalog())(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the tool with the given name.
func (r *Registry) Lookup(name string) (core.Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return core.Tool{}, core.ErrToolNotFound(name)
	}
	return t, nil
}

// Known reports whether a tool name exists in the catalog.
func (r *Registry) Known(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// IsType reports whether the named tool exists and has the given type.
func (r *Registry) IsType(name string, typ core.ToolType) bool {
	t, ok := r.tools[name]
	return ok && t.Type == typ
}

// ListByType returns all catalog tools of a type, sorted by name.
func (r *Registry) ListByType(typ core.ToolType) []core.Tool {
	var out []core.Tool
	for _, t := range r.tools {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Available reports whether a tool's runtime prerequisite is present. A tool
// with no credential requirement is always available. Unknown tools are not.
func (r *Registry) Available(name string) bool {
	t, ok := r.tools[name]
	if !ok {
		return false
	}
	return t.CredentialEnv == "" || r.env(t.CredentialEnv) != ""
}

// AvailableByType returns the available tools of a type, sorted by name.
func (r *Registry) AvailableByType(typ core.ToolType) []core.Tool {
	var out []core.Tool
	for _, t := range r.ListByType(typ) {
		if r.Available(t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// FallbackChainFor returns the tool's configured chain filtered to tools
// available in the current environment. Unavailable tools are silently
// excluded; the tool itself and duplicates never appear.
func (r *Registry) FallbackChainFor(name string) []core.Tool {
	t, ok := r.tools[name]
	if !ok {
		return nil
	}
	seen := map[string]bool{name: true}
	var out []core.Tool
	for _, alt := range t.FallbackChain {
		if seen[alt] {
			continue
		}
		seen[alt] = true
		if !r.Available(alt) {
			continue
		}
		fb, ok := r.tools[alt]
		if !ok {
			continue
		}
		out = append(out, fb)
	}
	return out
}

// CatalogView builds the oracle-facing view: available tools only.
func (r *Registry) CatalogView() core.ToolCatalogView {
	return core.ToolCatalogView{
		ImageTools: r.AvailableByType(core.ToolTypeImage),
		VideoTools: r.AvailableByType(core.ToolTypeVideo),
	}
}

// Price implements core.ToolPricer.
func (r *Registry) Price(name string) (float64, int, bool) {
	t, ok := r.tools[name]
	if !ok {
		return 0, 0, false
	}
	return t.Cost, t.LatencySeconds, true
}

// Len returns the catalog size.
func (r *Registry) Len() int {
	return len(r.tools)
}
