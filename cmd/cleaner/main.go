package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yarenty/cleaner/cmd/cleaner/app"
	"github.com/yarenty/cleaner/internal/config"
	"github.com/yarenty/cleaner/internal/exitcodes"
	"github.com/yarenty/cleaner/internal/version"
	"github.com/yarenty/cleaner/pkg/kind"
	"github.com/yarenty/cleaner/pkg/logger"
)

var (
	// Global flags
	cfgFile    string
	verbosity  int
	noProgress bool
	noColor    bool
	logFile    string

	// Clean flags
	kindName    string
	dirs        []string
	exclude     []string
	force       bool
	dryRun      bool
	interactive bool
	ciMode      bool
	maxDepth    int
	workers     int
	rateLimit   int
	outputType  string

	// Global logger instance
	log logger.Logger

	exitCode = exitcodes.Success
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Deletion failures never surface here; anything Execute returns
		// is a flag, config, or path problem.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitcodes.InvalidConfig)
	}
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:   "cleaner [flags] <path>",
	Short: "Reclaim disk space from build and cache directories",
	Long: `cleaner v` + version.Version + `
========================================

Removes build artifacts, dependency caches, and IDE leftovers from project
trees. Directories are matched by name per project kind, measured, and
deleted concurrently. Nothing is removed without confirmation unless
--force, --dry-run, or --ci is given.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: cannot open log file %s: %v\n", logFile, err)
				os.Exit(exitcodes.InvalidConfig)
			}
			log = logger.NewTeeLogger(verbosity, os.Stderr, f)
		} else {
			log = logger.NewLogger(logger.Config{
				Verbosity: verbosity,
				Output:    os.Stderr,
			})
		}
	},
	RunE: runClean,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flag("full").Value.String() == "true" {
			fmt.Println(version.FullVersion())
		} else {
			fmt.Println(version.Version)
		}
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List supported project kinds and their default directories",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range kind.Kinds() {
			fmt.Printf("%-8s %v\n", k, kind.DefaultDirs(k))
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (can be used multiple times)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress reporting")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "mirror log output to file")

	// Clean flags
	rootCmd.Flags().StringVarP(&kindName, "kind", "k", config.DefaultKind, "project kind: all|ide|rust|python|java|node|go|csharp|cpp|php|ruby")
	rootCmd.Flags().StringSliceVarP(&dirs, "dirs", "D", nil, "directory patterns to remove (replaces kind defaults)")
	rootCmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, "directory patterns never removed or entered")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report what would be removed without deleting")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "confirm each directory individually")
	rootCmd.Flags().BoolVar(&ciMode, "ci", false, "machine-readable JSON summary, no prompts")
	rootCmd.Flags().IntVarP(&maxDepth, "max-depth", "d", config.UnlimitedDepth, "maximum directory depth (-1 for unlimited)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of concurrent deletion workers")
	rootCmd.Flags().IntVarP(&rateLimit, "rate-limit", "r", 0, "deletions per second (0 for unlimited)")
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "TOML config file with kind overrides")
	rootCmd.Flags().StringVarP(&outputType, "output", "o", config.DefaultOutput, "output format: text|json|yaml")

	// Version command flags
	versionCmd.Flags().BoolP("full", "F", false, "show full version information")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(kindsCmd)

	rootCmd.SetHelpTemplate(getCustomHelpTemplate())
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Explicit flags win over environment values
	overlayFlags(cmd, &cfg)

	if cfgFile != "" {
		fc, err := config.LoadFile(afero.NewOsFs(), cfgFile)
		if err != nil {
			return err
		}
		cfg.Apply(fc)
		if len(cfg.Dirs) == 0 {
			if fileDirs, ok := fc.DirsFor(cfg.Kind); ok {
				cfg.Dirs = fileDirs
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"path":     args[0],
		"kind":     cfg.Kind,
		"dirs":     cfg.Dirs,
		"exclude":  cfg.Exclude,
		"maxDepth": cfg.MaxDepth,
		"workers":  cfg.Workers,
		"dryRun":   cfg.DryRun,
	}).Info("Starting clean")

	application := app.New(&cfg, log)
	defer application.Shutdown()

	summary, err := application.Run(args[0])
	if err != nil {
		return err
	}

	if len(summary.Errors) > 0 {
		exitCode = exitcodes.DeletionErrors
	}
	return nil
}

// overlayFlags copies every flag the user actually set onto the config
func overlayFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("kind") {
		cfg.Kind = kindName
	}
	if cmd.Flags().Changed("dirs") {
		cfg.Dirs = dirs
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Exclude = exclude
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimit = rateLimit
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputType
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logFile
	}
	if cmd.Flags().Changed("no-progress") {
		cfg.NoProgress = noProgress
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = noColor
	}

	cfg.Force = force
	cfg.DryRun = dryRun
	cfg.Interactive = interactive
	cfg.CI = ciMode
	cfg.Verbose = verbosity
}

func getCustomHelpTemplate() string {
	return `{{.Long}}

Usage:
  {{.Use}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

Project Kinds:
  all (default)  Union of every kind below
  ide            .idea, .vscode, .vs, xcuserdata, ...
  rust           target, out, build
  python         __pycache__, .venv, venv, .mypy_cache, ...
  java           build, out, target, bin, classes, ...
  node           node_modules, dist, build, .next, ...
  go             bin, pkg, out
  csharp         bin, obj, out
  cpp            build, out, bin, CMakeFiles, cmake-build-*
  php            vendor, out, build, cache
  ruby           .bundle, vendor, log, tmp, coverage

  Run "cleaner kinds" for the full pattern lists.

Patterns:
  Patterns match a single path segment by name. Globs use * and ?:

    -D "cmake-build-*"     any cmake build profile
    -e "important"         never touch directories named important

  Excluded directories are never removed and never entered, even when
  they also match a target pattern.

Config File:
  A TOML file given with --config can override kind patterns and set
  defaults:

    exclude = [".git"]
    max_depth = 5

    [kinds.rust]
    dirs = ["target", "artifacts"]

Environment Variables:
  CLEANER_KIND          Project kind to clean
  CLEANER_DIRS          Comma-separated directory patterns
  CLEANER_EXCLUDE       Comma-separated exclude patterns
  CLEANER_MAX_DEPTH     Maximum directory depth
  CLEANER_WORKERS       Number of concurrent deletion workers
  CLEANER_RATE_LIMIT    Deletions per second
  CLEANER_OUTPUT        Output format (text|json|yaml)
  CLEANER_LOG_FILE      Mirror log output to file
  CLEANER_NO_PROGRESS   Disable progress reporting
  CLEANER_NO_COLOR      Disable colored output
  CLEANER_VERBOSE       Verbosity level (number of 'v's)

Examples:
  # Preview what a full clean would remove
  cleaner --dry-run ~/projects

  # Clean rust build dirs, skip anything named important
  cleaner -k rust -e important ~/projects

  # Unattended CI cleanup with JSON summary
  cleaner --ci -k node /builds

  # Confirm each directory individually
  cleaner -i -k python ~/work

Exit Codes:
  0  all requested removals completed
  1  one or more directories could not be removed
  2  invalid flags, config file, or path

For more information and updates, visit: https://github.com/yarenty/cleaner{{end}}
`
}
