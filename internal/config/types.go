package config

// Constants for configuration limits and defaults
const (
	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4

	// UnlimitedDepth represents unlimited directory depth
	UnlimitedDepth = -1

	// DefaultOutput is the output format used when none is requested
	DefaultOutput = "text"

	// DefaultKind selects every known project kind
	DefaultKind = "all"
)
