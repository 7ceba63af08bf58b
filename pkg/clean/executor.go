package clean

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/yarenty/cleaner/pkg/logger"
	"github.com/yarenty/cleaner/pkg/walker"
)

// ConfirmFunc decides whether a candidate may be deleted. It is called once
// per candidate in interactive mode, in discovery order.
type ConfirmFunc func(candidate walker.Candidate) bool

// executor applies the mode policy to one candidate and performs (or
// simulates) the removal. Candidates never overlap, so executors can run
// concurrently without coordination.
type executor struct {
	fs      afero.Fs
	log     logger.Logger
	dryRun  bool
	confirm ConfirmFunc // nil means no prompting
}

// execute measures the candidate, then deletes it unless the run is a dry
// run or the user declines. The size pass always happens first so dry runs
// report prospective savings.
func (e *executor) execute(ctx context.Context, c walker.Candidate) Outcome {
	bytes := e.measure(c)

	if e.dryRun {
		e.log.WithFields(logger.Fields{
			"path":    c.Path,
			"pattern": c.Pattern,
			"bytes":   bytes,
		}).Info("Would remove")
		return Outcome{Path: c.Path, Pattern: c.Pattern, Kind: OutcomeSimulated, BytesFreed: bytes}
	}

	if e.confirm != nil && !e.confirm(c) {
		e.log.WithFields(logger.Fields{
			"path": c.Path,
		}).Info("Skipped by user")
		return Outcome{Path: c.Path, Pattern: c.Pattern, Kind: OutcomeSkipped, Reason: "user declined"}
	}

	if err := e.remove(c); err != nil {
		e.log.WithFields(logger.Fields{
			"path":  c.Path,
			"error": err,
		}).Error("Failed to remove")
		return Outcome{Path: c.Path, Pattern: c.Pattern, Kind: OutcomeFailed, Err: err}
	}

	e.log.WithFields(logger.Fields{
		"path":    c.Path,
		"pattern": c.Pattern,
		"bytes":   bytes,
	}).Info("Removed")
	return Outcome{Path: c.Path, Pattern: c.Pattern, Kind: OutcomeDeleted, BytesFreed: bytes}
}

// measure sums the sizes of all regular files under the candidate at the
// moment of measurement. Deletion races make the number approximate, never
// wrong in the summary sense: any later removal error is still reported.
func (e *executor) measure(c walker.Candidate) int64 {
	switch c.Type {
	case walker.FileCandidate:
		info, err := e.fs.Stat(c.Path)
		if err != nil {
			return 0
		}
		return info.Size()

	case walker.SymlinkCandidate:
		// Unlink only; the target is never measured.
		return 0
	}

	var total int64
	afero.Walk(e.fs, c.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			e.log.WithFields(logger.Fields{
				"path":  path,
				"error": err,
			}).Debug("Size measurement incomplete")
			return nil
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total
}

func (e *executor) remove(c walker.Candidate) error {
	if c.Type == walker.DirCandidate {
		return e.fs.RemoveAll(c.Path)
	}
	return e.fs.Remove(c.Path)
}
