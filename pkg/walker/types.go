package walker

import "fmt"

// CandidateType distinguishes how a candidate must be removed.
type CandidateType int

const (
	// DirCandidate is a matched directory, removed recursively
	DirCandidate CandidateType = iota

	// FileCandidate is a matched singleton junk file (.DS_Store, Thumbs.db)
	FileCandidate

	// SymlinkCandidate is a matched symbolic link, unlinked only; the
	// target is never touched
	SymlinkCandidate
)

func (t CandidateType) String() string {
	switch t {
	case DirCandidate:
		return "directory"
	case FileCandidate:
		return "file"
	case SymlinkCandidate:
		return "symlink"
	}
	return "unknown"
}

// Candidate is an entry selected for deletion. It is never mutated after
// creation.
type Candidate struct {
	// Path is the full path of the entry
	Path string

	// Depth is the distance from the traversal root (root = 0)
	Depth int

	// Pattern is the target pattern that matched, for diagnostics
	Pattern string

	// Type determines the removal strategy
	Type CandidateType
}

// TraversalError is a non-fatal error encountered while listing a
// directory. The walker reports it and continues with siblings.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal failed at %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// Item is one element of the walker's output stream: either a candidate or
// a traversal error, never both.
type Item struct {
	Candidate *Candidate
	Err       *TraversalError
}
