package progress

import (
	"io"
	"time"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleSpinner shows a spinning indicator
	StyleSpinner Style = "spinner"

	// StyleSimple shows basic text progress
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// ShowStats enables/disables the removal counters line
	ShowStats bool

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// Output is the destination writer (defaults to os.Stdout)
	Output io.Writer
}

// Status represents the current cleanup state. Totals are unknown up front
// since candidates appear while the tree is walked, so progress is counters,
// not a percentage.
type Status struct {
	// CurrentPath is the directory being measured or removed
	CurrentPath string

	// DirsRemoved is the number of directories removed so far
	DirsRemoved int64

	// BytesFreed is the space reclaimed so far
	BytesFreed int64

	// Skipped is the number of candidates declined so far
	Skipped int64
}

// Statistics provides derived progress information
type Statistics struct {
	StartTime   time.Time
	ElapsedTime time.Duration

	// RemovalRate is directories removed per second
	RemovalRate float64
}

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins progress visualization with initial message
	Start(message string)

	// Update updates the progress status
	Update(status Status)

	// Complete marks the operation as successfully completed
	Complete(message string)

	// Error marks the operation as failed
	Error(message string)

	// Stop stops progress visualization
	Stop()

	// IsSupportedTerminal checks if terminal supports advanced features
	IsSupportedTerminal() bool
}
