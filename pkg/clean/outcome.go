package clean

// OutcomeKind is the terminal state of one candidate.
type OutcomeKind int

const (
	// OutcomeDeleted means the candidate was removed from disk
	OutcomeDeleted OutcomeKind = iota

	// OutcomeSimulated means a dry run measured the candidate but left it in place
	OutcomeSimulated

	// OutcomeSkipped means the user declined the candidate; no side effect
	OutcomeSkipped

	// OutcomeFailed means removal was attempted and hit an I/O error
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeSimulated:
		return "simulated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the result of executing one candidate.
type Outcome struct {
	// Path of the candidate
	Path string

	// Pattern that selected the candidate
	Pattern string

	// Kind is the terminal state
	Kind OutcomeKind

	// BytesFreed is the measured size: freed for Deleted, prospective for
	// Simulated. Measured before deletion, so approximate if the tree is
	// mutated externally in between.
	BytesFreed int64

	// Reason is set for Skipped outcomes
	Reason string

	// Err is set for Failed outcomes
	Err error
}
