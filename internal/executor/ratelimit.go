package executor

import (
	"context"
	"sync"
	"time"

	"reelforge/internal/registry"
)

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimiterConfig configures a rate limiter.
type RateLimiterConfig struct {
	MaxTokens  float64
	RefillRate float64
}

// DefaultRateLimiterConfig returns the default configuration.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxTokens:  2,
		RefillRate: 1,
	}
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		tokens:     cfg.MaxTokens,
		maxTokens:  cfg.MaxTokens,
		refillRate: cfg.RefillRate,
		lastRefill: time.Now(),
	}
}

// Acquire blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()

		if r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}

		waitTime := time.Duration(float64(time.Second) / r.refillRate)
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// TryAcquire attempts to acquire a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill)
	r.lastRefill = now
	r.tokens = min(r.maxTokens, r.tokens+elapsed.Seconds()*r.refillRate)
}

// ProviderLimiters manages one rate limiter per vendor so parallel scene
// workers hitting the same vendor share a budget.
type ProviderLimiters struct {
	limiters map[string]*RateLimiter
	configs  map[string]RateLimiterConfig
	fallback RateLimiterConfig
	mu       sync.Mutex
}

// NewProviderLimiters creates a registry with per-vendor defaults.
func NewProviderLimiters() *ProviderLimiters {
	return &ProviderLimiters{
		limiters: make(map[string]*RateLimiter),
		configs:  defaultProviderConfigs(),
		fallback: DefaultRateLimiterConfig(),
	}
}

func defaultProviderConfigs() map[string]RateLimiterConfig {
	return map[string]RateLimiterConfig{
		registry.ProviderReplicate: {MaxTokens: 3, RefillRate: 1},
		registry.ProviderApiframe:  {MaxTokens: 1, RefillRate: 0.2}, // 1 request per 5 seconds
		registry.ProviderRunway:    {MaxTokens: 2, RefillRate: 0.5},
		registry.ProviderFal:       {MaxTokens: 3, RefillRate: 1},
		registry.ProviderLocal:     {MaxTokens: 100, RefillRate: 100},
	}
}

// Get returns the limiter for a provider, creating it on first use.
func (p *ProviderLimiters) Get(provider string) *RateLimiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, ok := p.limiters[provider]; ok {
		return limiter
	}
	cfg, ok := p.configs[provider]
	if !ok {
		cfg = p.fallback
	}
	limiter := NewRateLimiter(cfg)
	p.limiters[provider] = limiter
	return limiter
}

// SetConfig replaces a provider's limiter configuration.
func (p *ProviderLimiters) SetConfig(provider string, cfg RateLimiterConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configs[provider] = cfg
	p.limiters[provider] = NewRateLimiter(cfg)
}
