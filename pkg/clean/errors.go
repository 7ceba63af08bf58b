package clean

import "fmt"

// ConfigError is a fatal pre-flight error: invalid pattern syntax,
// conflicting mode flags, or a root that does not exist. It is returned
// before any traversal or deletion occurs.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DeletionError is a failure removing a matched candidate. It is recorded
// in the summary and never aborts the run.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to remove %s: %v", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error {
	return e.Err
}
