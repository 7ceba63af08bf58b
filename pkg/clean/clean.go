/*
Package clean implements the traversal-matching-deletion engine.

A Cleaner wires the walker's candidate stream into deletion executors and
folds their outcomes into a single summary. Deletions run on a bounded
worker pool except in interactive mode, where candidates are confirmed and
deleted one at a time in discovery order.

Basic usage:

	cleaner, err := clean.New(clean.Config{
		Kind:    kind.KindRust,
		DryRun:  true,
		MaxDepth: -1,
	}, afero.NewOsFs(), log)
	if err != nil {
		return err // *ConfigError, before anything was touched
	}

	summary, err := cleaner.Clean(ctx, "/home/user/projects")
*/
package clean

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/afero"

	"github.com/yarenty/cleaner/pkg/kind"
	"github.com/yarenty/cleaner/pkg/logger"
	"github.com/yarenty/cleaner/pkg/match"
	"github.com/yarenty/cleaner/pkg/walker"
)

// Config holds everything a clean run needs. The config's origin (flags,
// environment, TOML file) is invisible here.
type Config struct {
	// Kind selects the default target patterns
	Kind kind.ProjectKind

	// Dirs replaces the kind's default patterns when non-empty
	Dirs []string

	// ExtraDirs are appended to the target set
	ExtraDirs []string

	// Excludes protect matching entries and their subtrees
	Excludes []string

	// MaxDepth bounds the traversal; -1 means unlimited, root is depth 0
	MaxDepth int

	// DryRun measures and reports without touching the filesystem
	DryRun bool

	// Interactive confirms every candidate through Confirm; forces
	// sequential execution in discovery order
	Interactive bool

	// Unattended suppresses all prompting (CI mode)
	Unattended bool

	// Workers is the deletion pool size; 0 means available parallelism
	Workers int

	// RateLimit caps deletions per second; 0 means unlimited
	RateLimit int

	// Confirm is the injected yes/no decision function. Required when
	// Interactive is set; ignored when DryRun or Unattended.
	Confirm ConfirmFunc

	// OnOutcome, when set, observes every terminal outcome. Called from
	// worker goroutines; must be cheap and safe for concurrent use.
	OnOutcome func(Outcome)
}

// Cleaner runs the clean pipeline over a root directory.
type Cleaner interface {
	// Clean traverses root and removes (or simulates removing) every
	// matching candidate. Only a *ConfigError aborts; every other failure
	// is recorded in the summary.
	Clean(ctx context.Context, root string) (Summary, error)
}

type cleaner struct {
	config   Config
	targets  *match.Matcher
	excludes *match.Matcher
	fs       afero.Fs
	log      logger.Logger
}

// New validates the configuration and compiles the pattern sets. All
// configuration problems surface here, before any traversal begins.
func New(config Config, fs afero.Fs, log logger.Logger) (Cleaner, error) {
	if config.Interactive && config.Unattended {
		return nil, &ConfigError{Reason: "interactive and unattended modes are mutually exclusive"}
	}
	if config.Interactive && !config.DryRun && config.Confirm == nil {
		return nil, &ConfigError{Reason: "interactive mode requires a confirm function"}
	}
	if config.MaxDepth < -1 {
		return nil, &ConfigError{Reason: fmt.Sprintf("max depth must be -1 (unlimited) or non-negative, got %d", config.MaxDepth)}
	}
	if config.Workers < 0 {
		return nil, &ConfigError{Reason: "workers count must be non-negative"}
	}
	if config.Workers == 0 {
		config.Workers = runtime.NumCPU()
	}

	patterns := config.Dirs
	if len(patterns) == 0 {
		patterns = kind.DefaultDirs(config.Kind)
	}
	patterns = append(patterns, config.ExtraDirs...)

	targets, err := match.Compile(patterns)
	if err != nil {
		return nil, &ConfigError{Reason: "bad target pattern", Err: err}
	}
	excludes, err := match.Compile(config.Excludes)
	if err != nil {
		return nil, &ConfigError{Reason: "bad exclude pattern", Err: err}
	}

	return &cleaner{
		config:   config,
		targets:  targets,
		excludes: excludes,
		fs:       fs,
		log:      log,
	}, nil
}

func (c *cleaner) Clean(ctx context.Context, root string) (Summary, error) {
	info, err := c.fs.Stat(root)
	if err != nil {
		return Summary{}, &ConfigError{Reason: fmt.Sprintf("path %s does not exist", root), Err: err}
	}
	if !info.IsDir() {
		return Summary{}, &ConfigError{Reason: fmt.Sprintf("path %s is not a directory", root)}
	}

	c.log.WithFields(logger.Fields{
		"root":     root,
		"kind":     string(c.config.Kind),
		"targets":  c.targets.Patterns(),
		"excludes": c.excludes.Patterns(),
		"maxDepth": c.config.MaxDepth,
		"dryRun":   c.config.DryRun,
		"workers":  c.config.Workers,
	}).Info("Starting clean")

	w := walker.New(walker.Config{
		Targets:  c.targets,
		Excludes: c.excludes,
		MaxDepth: c.config.MaxDepth,
	}, c.fs, c.log)

	exec := &executor{
		fs:     c.fs,
		log:    c.log,
		dryRun: c.config.DryRun,
	}
	if c.config.Interactive && !c.config.Unattended {
		exec.confirm = c.config.Confirm
	}

	agg := NewAggregator()
	items := w.Walk(ctx, root)

	if c.config.Interactive {
		c.runSequential(ctx, items, exec, agg)
	} else {
		if err := c.runParallel(ctx, items, exec, agg); err != nil {
			return Summary{}, err
		}
	}

	summary := agg.Summary()
	c.log.WithFields(logger.Fields{
		"removed": summary.DirectoriesRemoved,
		"bytes":   summary.BytesFreed,
		"skipped": summary.Skipped,
		"errors":  len(summary.Errors),
	}).Info("Clean finished")

	return summary, nil
}

// runSequential confirms and deletes candidates one at a time, in discovery
// order. Prompts need exclusive, ordered access to the user.
func (c *cleaner) runSequential(ctx context.Context, items <-chan walker.Item, exec *executor, agg *Aggregator) {
	for item := range items {
		if item.Err != nil {
			agg.RecordTraversal(item.Err)
			continue
		}
		outcome := exec.execute(ctx, *item.Candidate)
		agg.Record(outcome)
		c.notify(outcome)
	}
}

// runParallel fans candidates out to a bounded worker pool. Candidates
// never overlap, so workers need no coordination beyond the aggregator.
// Cancellation stops dispatch; in-flight deletions are left to finish.
func (c *cleaner) runParallel(ctx context.Context, items <-chan walker.Item, exec *executor, agg *Aggregator) error {
	pool, err := workerPool(c.config)
	if err != nil {
		return &ConfigError{Reason: "worker pool setup failed", Err: err}
	}
	if err := pool.Start(ctx); err != nil {
		return &ConfigError{Reason: "worker pool start failed", Err: err}
	}

	id := 0
	for item := range items {
		if item.Err != nil {
			agg.RecordTraversal(item.Err)
			continue
		}

		candidate := *item.Candidate
		task := poolTask(id, func(taskCtx context.Context) error {
			outcome := exec.execute(taskCtx, candidate)
			agg.Record(outcome)
			c.notify(outcome)
			return nil
		})
		id++

		if err := pool.Submit(task); err != nil {
			// Dispatch stopped by cancellation; drain the walker.
			c.log.WithFields(logger.Fields{
				"path":  candidate.Path,
				"error": err,
			}).Warn("Dispatch stopped")
			break
		}
	}

	pool.Wait()
	return nil
}

func (c *cleaner) notify(o Outcome) {
	if c.config.OnOutcome != nil {
		c.config.OnOutcome(o)
	}
}
