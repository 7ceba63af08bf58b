package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/yarenty/cleaner/pkg/clean"
)

// formatText renders a human-readable summary
func (f *formatter) formatText(summary clean.Summary) (string, error) {
	f.log.Debug("Formatting text output")

	var builder strings.Builder

	verb := "Removed"
	if f.config.DryRun {
		verb = "Would remove"
	}

	countLine := fmt.Sprintf("%s %d directories", verb, summary.DirectoriesRemoved)
	sizeLine := fmt.Sprintf("Freed %s", humanize.IBytes(uint64(summary.BytesFreed)))
	if f.config.DryRun {
		sizeLine = fmt.Sprintf("Would free %s", humanize.IBytes(uint64(summary.BytesFreed)))
	}

	if f.config.WithColors {
		countLine = color.New(color.FgGreen, color.Bold).Sprint(countLine)
		sizeLine = color.New(color.FgGreen).Sprint(sizeLine)
	}

	builder.WriteString(countLine)
	builder.WriteString("\n")
	builder.WriteString(sizeLine)
	builder.WriteString("\n")

	if summary.Skipped > 0 {
		builder.WriteString(fmt.Sprintf("Skipped %d directories\n", summary.Skipped))
	}

	if len(summary.Errors) > 0 {
		header := fmt.Sprintf("%d errors:", len(summary.Errors))
		if f.config.WithColors {
			header = color.New(color.FgRed, color.Bold).Sprint(header)
		}
		builder.WriteString(header)
		builder.WriteString("\n")
		for _, e := range summary.Errors {
			builder.WriteString(fmt.Sprintf("  %s: %v\n", e.Path, e.Err))
		}
	}

	return builder.String(), nil
}
