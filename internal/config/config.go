// Package config resolves command options from flags, LMS_* environment
// variables and an optional YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yuya-takeyama/lms/pkg/logger"
	"github.com/yuya-takeyama/lms/pkg/progress"
	"github.com/yuya-takeyama/lms/pkg/syncer"
)

const envPrefix = "LMS"

var ErrInvalidConcurrency = errors.New("concurrency must be at least 1")

// viper key -> flag name
var flagKeys = map[string]string{
	"verbose":     "verbose",
	"sequential":  "sequential",
	"concurrency": "concurrency",
	"exclude":     "exclude",
	"dryrun":      "dryrun",
	"no_progress": "no-progress",
	"nodelete":    "nodelete",
	"secure":      "secure",
}

type Config struct {
	Verbose     bool
	Sequential  bool
	Concurrency int
	Excludes    []string
	DryRun      bool
	NoProgress  bool
	NoDelete    bool
	Secure      bool

	// File is the config file that was read, if any.
	File string
}

// AddFlags registers the flags shared by every subcommand on cmd.
func AddFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "Config file (default $HOME/.config/lms/config.yaml)")
	f.BoolP("verbose", "v", false, "Log every operation")
	f.BoolP("sequential", "S", false, "Run operations one at a time")
	f.Int("concurrency", runtime.NumCPU(), "Number of concurrent operations")
	f.StringSlice("exclude", nil, "Exclude patterns (multiple allowed)")
	f.Bool("dryrun", false, "Shows operations without executing")
	f.Bool("no-progress", false, "Disable the progress bar")
}

// AddSyncFlags registers the flags only meaningful to sync.
func AddSyncFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("nodelete", "n", false, "Do not delete destination entries missing from source")
	f.BoolP("secure", "s", false, "Compare files with BLAKE2b-512 instead of XXH3")
}

// Load reads the configuration for cmd. Flags must already be parsed.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		v.SetConfigFile(f.Value.String())
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "lms"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("concurrency", runtime.NumCPU())

	cfg := &Config{
		Verbose:     v.GetBool("verbose"),
		Sequential:  v.GetBool("sequential"),
		Concurrency: v.GetInt("concurrency"),
		Excludes:    v.GetStringSlice("exclude"),
		DryRun:      v.GetBool("dryrun"),
		NoProgress:  v.GetBool("no_progress"),
		NoDelete:    v.GetBool("nodelete"),
		Secure:      v.GetBool("secure"),
		File:        v.ConfigFileUsed(),
	}

	return cfg, cfg.Validate()
}

// Validate checks option values that flags alone cannot constrain.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidConcurrency, c.Concurrency)
	}
	return nil
}

// Options converts the configuration into syncer options.
func (c *Config) Options(log logger.Logger, sink progress.Sink) syncer.Options {
	return syncer.Options{
		NoDelete:    c.NoDelete,
		Secure:      c.Secure,
		Verbose:     c.Verbose,
		Sequential:  c.Sequential,
		DryRun:      c.DryRun,
		Concurrency: c.Concurrency,
		Excludes:    c.Excludes,
		Logger:      log,
		Progress:    sink,
	}
}
