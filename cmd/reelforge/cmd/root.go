// Package cmd implements the reelforge command line interface.
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reelforge/internal/config"
	"reelforge/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *logging.Logger

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "reelforge",
	Short: "Plan and execute AI video generation workflows",
	Long: `reelforge turns an ordered scene list into a per-scene tool assignment
that honors style presets, budget and time ceilings, then executes the
plan with per-tool fallback chains and provider rate limiting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// SetVersion injects build-time version information.
func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initConfig()
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .reelforge.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")

	// Bind flags to viper (errors are nil when flag exists)
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() error {
	// Vendor credentials commonly live in a local .env file.
	_ = godotenv.Load()

	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}

	loaded, err := loader.Load()
	if err != nil {
		return err
	}
	if err := config.NewValidator().Validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	log = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: rootCmd.ErrOrStderr(),
	})
	return nil
}
