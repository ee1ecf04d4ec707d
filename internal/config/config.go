package config

// Config holds all application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Output   OutputConfig   `mapstructure:"output"`
	Runlog   RunlogConfig   `mapstructure:"runlog"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OracleConfig configures the planning advisor.
type OracleConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Timeout     string  `mapstructure:"timeout"`
	Temperature float64 `mapstructure:"temperature"`
}

// DefaultsConfig configures default planning constraints.
type DefaultsConfig struct {
	Quality string  `mapstructure:"quality"`
	Style   string  `mapstructure:"style"`
	MaxCost float64 `mapstructure:"max_cost"`
	MaxTime float64 `mapstructure:"max_time"`
}

// ExecutorConfig configures plan execution.
type ExecutorConfig struct {
	Workers        int     `mapstructure:"workers"`
	MaxAttempts    int     `mapstructure:"max_attempts"`
	TimeoutSlack   float64 `mapstructure:"timeout_slack"`
	ContinueOnFail bool    `mapstructure:"continue_on_fail"`
	RatePerSecond  float64 `mapstructure:"rate_per_second"`
	RateBurst      int     `mapstructure:"rate_burst"`
}

// CatalogConfig configures the tool catalog source.
type CatalogConfig struct {
	Path       string `mapstructure:"path"`
	StylesPath string `mapstructure:"styles_path"`
}

// OutputConfig configures artifact and report output.
type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	ReportsDir string `mapstructure:"reports_dir"`
}

// RunlogConfig configures run history persistence.
type RunlogConfig struct {
	Path string `mapstructure:"path"`
}
