package exitcodes

// Exit codes for the cleaner CLI
// These codes form the operational contract with CI/CD and operators
const (
	Success        = 0   // All requested removals completed
	DeletionErrors = 1   // One or more candidates could not be removed
	InvalidConfig  = 2   // Invalid flags, config file, or root path
	Interrupted    = 130 // Cancelled by signal before completion
)
