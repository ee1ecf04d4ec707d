package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "REELFORGE",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "REELFORGE",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (REELFORGE_*)
// 3. Project config (.reelforge.yaml in current directory)
// 4. User config (~/.config/reelforge/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".reelforge")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "reelforge"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// OPENAI_API_KEY is the conventional spelling, honored when the
	// prefixed form is absent.
	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("oracle.enabled", true)
	l.v.SetDefault("oracle.model", "gpt-4o-mini")
	l.v.SetDefault("oracle.timeout", "45s")
	l.v.SetDefault("oracle.temperature", 0.3)

	l.v.SetDefault("defaults.quality", "standard")
	l.v.SetDefault("defaults.style", "cinematic")
	l.v.SetDefault("defaults.max_cost", 5.0)
	l.v.SetDefault("defaults.max_time", 1800.0)

	l.v.SetDefault("executor.workers", 3)
	l.v.SetDefault("executor.max_attempts", 3)
	l.v.SetDefault("executor.timeout_slack", 3.0)
	l.v.SetDefault("executor.continue_on_fail", false)
	l.v.SetDefault("executor.rate_per_second", 1.0)
	l.v.SetDefault("executor.rate_burst", 2)

	l.v.SetDefault("output.dir", "output")
	l.v.SetDefault("output.reports_dir", "output/reports")

	l.v.SetDefault("runlog.path", ".reelforge/runs.db")
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Set sets a configuration value.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// IsSet checks if a key has been set.
func (l *Loader) IsSet(key string) bool {
	return l.v.IsSet(key)
}
