/*
Package config provides configuration management for the Cleaner application.
It merges defaults, environment variables, and an optional TOML config file,
and validates the result.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Environment Variables:

	CLEANER_KIND          Project kind to clean (default: all)
	CLEANER_DIRS          Comma-separated directory patterns (replaces kind defaults)
	CLEANER_EXCLUDE       Comma-separated exclude patterns
	CLEANER_MAX_DEPTH     Maximum directory depth (-1 for unlimited)
	CLEANER_WORKERS       Number of concurrent deletion workers
	CLEANER_RATE_LIMIT    Deletions per second (0 for unlimited)
	CLEANER_OUTPUT        Output format: text|json|yaml
	CLEANER_LOG_FILE      Mirror log output to this file
	CLEANER_NO_PROGRESS   Disable progress reporting
	CLEANER_NO_COLOR      Disable colored output
	CLEANER_VERBOSE       Verbosity level (number of 'v's)
*/
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Kind is the project kind whose default directory patterns are used
	Kind string

	// Dirs replaces the kind's default patterns when non-empty
	Dirs []string

	// Exclude is a list of directory patterns never removed or entered
	Exclude []string

	// MaxDepth is the maximum directory depth to consider (-1 for unlimited)
	MaxDepth int

	// Workers is the number of concurrent deletion workers
	Workers int

	// RateLimit is the maximum number of deletions per second (0 for unlimited)
	RateLimit int

	// Output specifies the output format (text, json, or yaml)
	Output string

	// LogFile mirrors log output to the given path (empty for stderr only)
	LogFile string

	// Force skips the confirmation prompt
	Force bool

	// DryRun reports what would be removed without deleting anything
	DryRun bool

	// Interactive prompts before each individual removal
	Interactive bool

	// CI emits a machine-readable JSON summary and never prompts
	CI bool

	// NoProgress disables progress reporting
	NoProgress bool

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

// FileConfig is the shape of the optional TOML config file.
//
//	exclude = [".git"]
//	max_depth = 5
//
//	[kinds.rust]
//	dirs = ["target", "artifacts"]
type FileConfig struct {
	Exclude  []string            `mapstructure:"exclude"`
	MaxDepth *int                `mapstructure:"max_depth"`
	Kinds    map[string]KindDirs `mapstructure:"kinds"`
}

// KindDirs overrides the default patterns of one kind
type KindDirs struct {
	Dirs []string `mapstructure:"dirs"`
}

// validOutputFormats contains the list of supported output formats
var validOutputFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("kind", DefaultKind)
	v.SetDefault("max_depth", UnlimitedDepth)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("rate_limit", 0)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("no_progress", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	// Configure environment variables
	v.SetEnvPrefix("CLEANER")
	v.AutomaticEnv()

	v.BindEnv("kind")
	v.BindEnv("dirs")
	v.BindEnv("exclude")
	v.BindEnv("max_depth")
	v.BindEnv("workers")
	v.BindEnv("rate_limit")
	v.BindEnv("output")
	v.BindEnv("log_file")
	v.BindEnv("no_progress")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	// Process verbosity level from string of 'v's
	if verboseStr := v.GetString("verbose"); verboseStr != "" {
		v.Set("verbose", strings.Count(verboseStr, "v"))
	}

	cfg := Config{
		Kind:       v.GetString("kind"),
		Dirs:       splitList(v.GetString("dirs")),
		Exclude:    splitList(v.GetString("exclude")),
		MaxDepth:   v.GetInt("max_depth"),
		Workers:    v.GetInt("workers"),
		RateLimit:  v.GetInt("rate_limit"),
		Output:     v.GetString("output"),
		LogFile:    v.GetString("log_file"),
		NoProgress: v.GetBool("no_progress"),
		NoColor:    v.GetBool("no_color"),
		Verbose:    v.GetInt("verbose"),
	}

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFile reads the optional TOML config file from the given filesystem.
func LoadFile(fs afero.Fs, path string) (FileConfig, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return FileConfig{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return FileConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fc, nil
}

// Apply overlays file-level settings onto the configuration. Command-line
// and environment values win, so only unset fields are filled in.
func (c *Config) Apply(fc FileConfig) {
	if len(c.Exclude) == 0 {
		c.Exclude = fc.Exclude
	}
	if c.MaxDepth == UnlimitedDepth && fc.MaxDepth != nil {
		c.MaxDepth = *fc.MaxDepth
	}
}

// DirsFor returns the file-level pattern override for a kind, if any.
func (fc FileConfig) DirsFor(kind string) ([]string, bool) {
	kd, ok := fc.Kinds[kind]
	if !ok || len(kd.Dirs) == 0 {
		return nil, false
	}
	return kd.Dirs, true
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be non-negative")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if c.MaxDepth < UnlimitedDepth {
		return fmt.Errorf("max depth must be -1 (unlimited) or non-negative")
	}

	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid output format: must be one of [text json yaml]")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if c.Interactive && c.CI {
		return fmt.Errorf("interactive mode cannot be combined with CI mode")
	}
	if c.Interactive && c.Force {
		return fmt.Errorf("interactive mode cannot be combined with force")
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Kind: %s, Dirs: %v, Exclude: %v, MaxDepth: %d, Workers: %d, "+
			"RateLimit: %d, Output: %s, Force: %v, DryRun: %v, Interactive: %v, "+
			"CI: %v, NoProgress: %v, NoColor: %v, Verbose: %d}",
		c.Kind, c.Dirs, c.Exclude, c.MaxDepth, c.Workers,
		c.RateLimit, c.Output, c.Force, c.DryRun, c.Interactive,
		c.CI, c.NoProgress, c.NoColor, c.Verbose,
	)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
