package config

import (
	"fmt"
	"strings"
	"time"

	"reelforge/internal/core"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateOracle(&cfg.Oracle)
	v.validateDefaults(&cfg.Defaults)
	v.validateExecutor(&cfg.Executor)
	v.validateRunlog(&cfg.Runlog)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value any, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateOracle(cfg *OracleConfig) {
	if !cfg.Enabled {
		return
	}
	if cfg.Model == "" {
		v.addError("oracle.model", cfg.Model, "model required when oracle is enabled")
	}
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err != nil {
			v.addError("oracle.timeout", cfg.Timeout, "invalid duration")
		} else if d <= 0 {
			v.addError("oracle.timeout", cfg.Timeout, "must be positive")
		}
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		v.addError("oracle.temperature", cfg.Temperature, "must be between 0 and 2")
	}
}

func (v *Validator) validateDefaults(cfg *DefaultsConfig) {
	if !core.ValidQuality(core.QualityLevel(cfg.Quality)) {
		v.addError("defaults.quality", cfg.Quality, "must be one of: budget, standard, premium, viral")
	}
	if !core.ValidStyle(core.VideoStyle(cfg.Style)) {
		v.addError("defaults.style", cfg.Style, "must be one of: character, cinematic, pika, hybrid")
	}
	// -1 disables a ceiling.
	if cfg.MaxCost < 0 && cfg.MaxCost != core.Unconstrained {
		v.addError("defaults.max_cost", cfg.MaxCost, "must be non-negative or -1")
	}
	if cfg.MaxTime < 0 && cfg.MaxTime != core.Unconstrained {
		v.addError("defaults.max_time", cfg.MaxTime, "must be non-negative or -1")
	}
}

func (v *Validator) validateExecutor(cfg *ExecutorConfig) {
	if cfg.Workers < 1 {
		v.addError("executor.workers", cfg.Workers, "must be at least 1")
	}
	if cfg.MaxAttempts < 1 {
		v.addError("executor.max_attempts", cfg.MaxAttempts, "must be at least 1")
	}
	if cfg.TimeoutSlack < 1 {
		v.addError("executor.timeout_slack", cfg.TimeoutSlack, "must be at least 1")
	}
	if cfg.RatePerSecond <= 0 {
		v.addError("executor.rate_per_second", cfg.RatePerSecond, "must be positive")
	}
	if cfg.RateBurst < 1 {
		v.addError("executor.rate_burst", cfg.RateBurst, "must be at least 1")
	}
}

func (v *Validator) validateRunlog(cfg *RunlogConfig) {
	if cfg.Path == "" {
		v.addError("runlog.path", cfg.Path, "path required")
	}
}
