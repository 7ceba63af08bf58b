/*
Package app provides the application container and orchestration for the
cleaner CLI. It manages component lifecycle, wires the cleaning engine to
progress reporting and output formatting, and handles graceful shutdown.

Usage:

	application := app.New(cfg, log)
	defer application.Shutdown()

	summary, err := application.Run(path)
*/
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/yarenty/cleaner/internal/config"
	"github.com/yarenty/cleaner/pkg/clean"
	"github.com/yarenty/cleaner/pkg/kind"
	"github.com/yarenty/cleaner/pkg/logger"
	"github.com/yarenty/cleaner/pkg/output"
	"github.com/yarenty/cleaner/pkg/progress"
	"github.com/yarenty/cleaner/pkg/walker"
)

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs

	formatter output.Formatter
	progress  progress.Progress

	stdin  *bufio.Reader
	stdout io.Writer

	// Live counters fed to the progress display
	dirsRemoved atomic.Int64
	bytesFreed  atomic.Int64
	skipped     atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// New creates a new application instance
func New(cfg *config.Config, log logger.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config: cfg,
		log:    log,
		fs:     afero.NewOsFs(),
		stdin:  bufio.NewReader(os.Stdin),
		stdout: os.Stdout,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	a.initComponents()
	a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Debug("Application initialized")

	return a
}

// Run executes a clean operation against the given root path
func (a *App) Run(path string) (clean.Summary, error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
		}
	}()

	projectKind, err := kind.Parse(a.config.Kind)
	if err != nil {
		return clean.Summary{}, &clean.ConfigError{Reason: "invalid kind", Err: err}
	}

	if !a.confirmRun(path, projectKind) {
		fmt.Fprintln(a.stdout, "Aborted.")
		return clean.Summary{}, nil
	}

	cleaner, err := clean.New(clean.Config{
		Kind:        projectKind,
		Dirs:        a.config.Dirs,
		Excludes:    a.config.Exclude,
		MaxDepth:    a.config.MaxDepth,
		DryRun:      a.config.DryRun,
		Interactive: a.config.Interactive,
		Unattended:  a.config.CI,
		Workers:     a.config.Workers,
		RateLimit:   a.config.RateLimit,
		Confirm:     a.confirmCandidate,
		OnOutcome:   a.observeOutcome,
	}, a.fs, a.log)
	if err != nil {
		return clean.Summary{}, err
	}

	if a.progress != nil {
		verb := "Cleaning"
		if a.config.DryRun {
			verb = "Scanning"
		}
		a.progress.Start(fmt.Sprintf("%s %s", verb, path))
	}

	summary, err := cleaner.Clean(a.ctx, path)

	if a.progress != nil {
		if err != nil {
			a.progress.Error(fmt.Sprintf("Error: %v", err))
		} else {
			a.progress.Complete("Done")
		}
		a.progress.Stop()
	}

	if err != nil {
		return clean.Summary{}, err
	}

	formatted, err := a.formatter.Format(summary)
	if err != nil {
		return summary, fmt.Errorf("output formatting failed: %w", err)
	}
	fmt.Fprint(a.stdout, formatted)
	if !strings.HasSuffix(formatted, "\n") {
		fmt.Fprintln(a.stdout)
	}

	return summary, nil
}

// Shutdown performs a graceful shutdown of the application
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	default:
	}

	a.log.Debug("Shutting down")
	a.cancel()
	if a.progress != nil {
		a.progress.Stop()
	}
	close(a.done)
	return nil
}

// initComponents initializes all application components
func (a *App) initComponents() {
	a.log.Debug("Initializing application components")

	format := output.Format(a.config.Output)
	if a.config.CI {
		// CI consumers parse the summary; never hand them colored text
		format = output.FormatJSON
	}

	a.formatter = output.NewFormatter(output.Config{
		Format:     format,
		WithColors: !a.config.NoColor && format == output.FormatText,
		DryRun:     a.config.DryRun,
	}, a.log)

	if a.showProgress() {
		a.progress = progress.New(progress.Config{
			Style:       progress.StyleSpinner,
			ShowStats:   true,
			NoColor:     a.config.NoColor,
			RefreshRate: 100 * time.Millisecond,
			Output:      os.Stderr,
		}, a.log)
	}

	a.log.Debug("Components initialized")
}

// showProgress reports whether a live progress display makes sense
func (a *App) showProgress() bool {
	if a.config.NoProgress || a.config.CI || a.config.Interactive {
		return false
	}
	// Progress writes to stderr; keep quiet when it is redirected
	if fileInfo, err := os.Stderr.Stat(); err == nil {
		return fileInfo.Mode()&os.ModeCharDevice != 0
	}
	return false
}

// confirmRun asks the single up-front question before anything is removed.
// Dry runs, forced runs, CI runs, and interactive runs skip it; interactive
// mode confirms per directory instead.
func (a *App) confirmRun(path string, projectKind kind.ProjectKind) bool {
	if a.config.Force || a.config.DryRun || a.config.CI || a.config.Interactive {
		return true
	}

	prompt := fmt.Sprintf("Remove %s directories under %s? [y/N] ", projectKind, path)
	if !a.config.NoColor {
		prompt = color.New(color.FgYellow, color.Bold).Sprint(prompt)
	}

	return a.ask(prompt)
}

// confirmCandidate is the per-directory prompt used in interactive mode
func (a *App) confirmCandidate(c walker.Candidate) bool {
	prompt := fmt.Sprintf("Remove %s? [y/N] ", c.Path)
	if !a.config.NoColor {
		prompt = color.New(color.FgYellow).Sprint(prompt)
	}
	return a.ask(prompt)
}

func (a *App) ask(prompt string) bool {
	fmt.Fprint(a.stdout, prompt)

	line, err := a.stdin.ReadString('\n')
	if err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
		}).Debug("Prompt read failed, treating as no")
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// observeOutcome feeds terminal outcomes into the progress display. It is
// called from worker goroutines.
func (a *App) observeOutcome(o clean.Outcome) {
	switch o.Kind {
	case clean.OutcomeDeleted, clean.OutcomeSimulated:
		a.dirsRemoved.Add(1)
		a.bytesFreed.Add(o.BytesFreed)
	case clean.OutcomeSkipped:
		a.skipped.Add(1)
	}

	if a.progress == nil {
		return
	}
	a.progress.Update(progress.Status{
		CurrentPath: o.Path,
		DirsRemoved: a.dirsRemoved.Load(),
		BytesFreed:  a.bytesFreed.Load(),
		Skipped:     a.skipped.Load(),
	})
}
