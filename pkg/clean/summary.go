package clean

import (
	"sync"

	"github.com/yarenty/cleaner/pkg/walker"
)

// PathError is one recorded failure, kept in discovery order.
type PathError struct {
	Path string
	Err  error
}

// Summary is the immutable result of a clean run. Accumulation is
// commutative, so partial summaries from concurrent executors can be merged
// in any order.
type Summary struct {
	// DirectoriesRemoved counts Deleted and Simulated candidates
	DirectoriesRemoved int

	// BytesFreed is the total measured size of removed (or would-be
	// removed) candidates
	BytesFreed int64

	// Skipped counts user-declined candidates; not errors
	Skipped int

	// Errors holds deletion and traversal failures
	Errors []PathError
}

// Merge folds partial summaries into one. Order of arguments does not
// affect counts or totals.
func Merge(parts ...Summary) Summary {
	var out Summary
	for _, p := range parts {
		out.DirectoriesRemoved += p.DirectoriesRemoved
		out.BytesFreed += p.BytesFreed
		out.Skipped += p.Skipped
		out.Errors = append(out.Errors, p.Errors...)
	}
	return out
}

// Aggregator accumulates outcomes from one or many concurrent executor
// invocations. It is the only synchronization point of the pipeline.
type Aggregator struct {
	mu      sync.Mutex
	summary Summary
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record folds one outcome into the summary. Safe for concurrent use.
func (a *Aggregator) Record(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch o.Kind {
	case OutcomeDeleted, OutcomeSimulated:
		a.summary.DirectoriesRemoved++
		a.summary.BytesFreed += o.BytesFreed
	case OutcomeSkipped:
		a.summary.Skipped++
	case OutcomeFailed:
		a.summary.Errors = append(a.summary.Errors, PathError{
			Path: o.Path,
			Err:  &DeletionError{Path: o.Path, Err: o.Err},
		})
	}
}

// RecordTraversal attaches a non-fatal traversal error to the summary.
func (a *Aggregator) RecordTraversal(err *walker.TraversalError) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.summary.Errors = append(a.summary.Errors, PathError{
		Path: err.Path,
		Err:  err,
	})
}

// Summary returns a copy of the accumulated result.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.summary
	out.Errors = make([]PathError, len(a.summary.Errors))
	copy(out.Errors, a.summary.Errors)
	return out
}
