/*
Package walker enumerates deletion candidates under a root directory.

The walker streams candidates as it finds them, so deletion can start while
traversal is still running. Three rules shape the traversal:

  - exclusion wins: an entry matching an exclude pattern is neither emitted
    nor descended into, even if it also matches a target pattern
  - no descent into matches: once a directory is emitted as a candidate its
    subtree is never visited again
  - depth is bounded: with a max depth of d, no candidate deeper than d is
    emitted and no directory at depth d is descended into

Symbolic links are never followed. A symlink whose name matches a target
pattern is emitted as an unlink-only candidate.
*/
package walker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/yarenty/cleaner/pkg/logger"
	"github.com/yarenty/cleaner/pkg/match"
)

// singletonFiles are the only regular files that may become candidates.
// They follow the same match path as directories, with size = their own.
var singletonFiles = map[string]bool{
	".DS_Store": true,
	"Thumbs.db": true,
}

// Config holds walker configuration.
type Config struct {
	// Targets selects entries for deletion
	Targets *match.Matcher

	// Excludes protects entries (and their subtrees) from deletion
	Excludes *match.Matcher

	// MaxDepth bounds the traversal; -1 means unlimited, root is depth 0
	MaxDepth int
}

// Walker performs a single-pass traversal over a snapshot of the tree. It
// does not tolerate concurrent external mutation of the tree.
type Walker struct {
	config Config
	fs     afero.Fs
	log    logger.Logger
}

// New creates a walker over the given filesystem.
func New(config Config, fs afero.Fs, log logger.Logger) *Walker {
	return &Walker{
		config: config,
		fs:     fs,
		log:    log,
	}
}

// Walk starts the traversal and returns the output stream. The channel is
// closed when traversal finishes or the context is cancelled. The returned
// sequence is finite and non-restartable.
func (w *Walker) Walk(ctx context.Context, root string) <-chan Item {
	items := make(chan Item)

	go func() {
		defer close(items)

		w.log.WithFields(logger.Fields{
			"root":     root,
			"maxDepth": w.config.MaxDepth,
			"targets":  w.config.Targets.Patterns(),
			"excludes": w.config.Excludes.Patterns(),
		}).Debug("Starting traversal")

		base := filepath.Base(filepath.Clean(root))

		// The root is evaluated like any other entry. An excluded root
		// yields nothing; a matched root is a single candidate covering
		// the whole tree.
		if _, excluded := w.config.Excludes.Matches(base); excluded {
			w.log.WithFields(logger.Fields{
				"root": root,
			}).Debug("Root is excluded, nothing to do")
			return
		}

		if pattern, ok := w.config.Targets.Matches(base); ok {
			w.emit(ctx, items, &Candidate{
				Path:    root,
				Depth:   0,
				Pattern: pattern,
				Type:    DirCandidate,
			})
			return
		}

		w.walkDir(ctx, items, root, 0)
	}()

	return items
}

// walkDir lists one directory and processes its entries. depth is the depth
// of path itself; entries are at depth+1.
func (w *Walker) walkDir(ctx context.Context, items chan<- Item, path string, depth int) {
	entries, err := afero.ReadDir(w.fs, path)
	if err != nil {
		w.log.WithFields(logger.Fields{
			"path":  path,
			"error": err,
		}).Warn("Failed to list directory")
		w.emitErr(ctx, items, &TraversalError{Path: path, Err: err})
		return
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		name := entry.Name()
		entryPath := filepath.Join(path, name)
		entryDepth := depth + 1

		if _, excluded := w.config.Excludes.Matches(name); excluded {
			w.log.WithFields(logger.Fields{
				"path": entryPath,
			}).Trace("Entry excluded")
			continue
		}

		if entry.Mode()&os.ModeSymlink != 0 {
			if pattern, ok := w.config.Targets.Matches(name); ok && w.withinDepth(entryDepth) {
				w.emit(ctx, items, &Candidate{
					Path:    entryPath,
					Depth:   entryDepth,
					Pattern: pattern,
					Type:    SymlinkCandidate,
				})
			}
			// Never follow links, matched or not.
			continue
		}

		if entry.IsDir() {
			if pattern, ok := w.config.Targets.Matches(name); ok && w.withinDepth(entryDepth) {
				w.emit(ctx, items, &Candidate{
					Path:    entryPath,
					Depth:   entryDepth,
					Pattern: pattern,
					Type:    DirCandidate,
				})
				// The subtree belongs to the candidate now.
				continue
			}
			if w.canDescend(entryDepth) {
				w.walkDir(ctx, items, entryPath, entryDepth)
			}
			continue
		}

		if singletonFiles[name] {
			if pattern, ok := w.config.Targets.Matches(name); ok && w.withinDepth(entryDepth) {
				w.emit(ctx, items, &Candidate{
					Path:    entryPath,
					Depth:   entryDepth,
					Pattern: pattern,
					Type:    FileCandidate,
				})
			}
		}
	}
}

// withinDepth reports whether a candidate at the given depth is allowed.
func (w *Walker) withinDepth(depth int) bool {
	return w.config.MaxDepth < 0 || depth <= w.config.MaxDepth
}

// canDescend reports whether children of a directory at the given depth
// could still be candidates.
func (w *Walker) canDescend(depth int) bool {
	return w.config.MaxDepth < 0 || depth < w.config.MaxDepth
}

func (w *Walker) emit(ctx context.Context, items chan<- Item, c *Candidate) {
	w.log.WithFields(logger.Fields{
		"path":    c.Path,
		"depth":   c.Depth,
		"pattern": c.Pattern,
		"type":    c.Type.String(),
	}).Debug("Candidate found")

	select {
	case <-ctx.Done():
	case items <- Item{Candidate: c}:
	}
}

func (w *Walker) emitErr(ctx context.Context, items chan<- Item, err *TraversalError) {
	select {
	case <-ctx.Done():
	case items <- Item{Err: err}:
	}
}
