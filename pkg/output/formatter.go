/*
Package output renders cleanup summaries for humans and for machines. It
supports a colored text format plus JSON and YAML for scripting, and keeps
the JSON key names stable so CI pipelines can parse them.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatText,
		WithColors: true,
	}, log)

	result, err := formatter.Format(summary)
*/
package output

import (
	"fmt"

	"github.com/yarenty/cleaner/pkg/clean"
	"github.com/yarenty/cleaner/pkg/logger"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithColors bool

	// DryRun switches the text rendering to the "would remove" phrasing.
	DryRun bool
}

// Formatter defines the interface for summary formatting
type Formatter interface {
	Format(clean.Summary) (string, error)
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders the summary according to the configured format
func (f *formatter) Format(summary clean.Summary) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"withColors": f.config.WithColors,
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatText:
		return f.formatText(summary)
	case FormatJSON:
		return f.formatJSON(summary)
	case FormatYAML:
		return f.formatYAML(summary)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf(msg)
	}
}
