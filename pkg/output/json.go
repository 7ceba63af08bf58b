package output

import (
	"encoding/json"

	"github.com/yarenty/cleaner/pkg/clean"
	"github.com/yarenty/cleaner/pkg/logger"
)

// jsonError represents a single failed deletion in machine output
type jsonError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// jsonSummary is the machine-readable summary. The "directories" and
// "total_bytes" keys are a stable contract for CI consumers.
type jsonSummary struct {
	Directories int         `json:"directories" yaml:"directories"`
	TotalBytes  int64       `json:"total_bytes" yaml:"total_bytes"`
	Skipped     int         `json:"skipped" yaml:"skipped"`
	Errors      []jsonError `json:"errors" yaml:"errors"`
}

func (f *formatter) formatJSON(summary clean.Summary) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.convertSummary(summary), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}

func (f *formatter) convertSummary(summary clean.Summary) *jsonSummary {
	out := &jsonSummary{
		Directories: summary.DirectoriesRemoved,
		TotalBytes:  summary.BytesFreed,
		Skipped:     summary.Skipped,
		Errors:      make([]jsonError, 0, len(summary.Errors)),
	}

	for _, e := range summary.Errors {
		out.Errors = append(out.Errors, jsonError{
			Path:  e.Path,
			Error: e.Err.Error(),
		})
	}

	return out
}
