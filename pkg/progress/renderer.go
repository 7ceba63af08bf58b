package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type renderer interface {
	render(Status, string, Statistics) string
}

type spinnerRenderer struct {
	noColor   bool
	showStats bool
	frame     int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (r *spinnerRenderer) render(status Status, message string, stats Statistics) string {
	r.frame = (r.frame + 1) % len(spinnerFrames)
	spinner := spinnerFrames[r.frame]

	if !r.noColor {
		spinner = fmt.Sprintf("\033[36m%s\033[0m", spinner) // Cyan color
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("\r%s %s", spinner, message))

	if status.CurrentPath != "" {
		output.WriteString(fmt.Sprintf(" %s", status.CurrentPath))
	}

	if r.showStats {
		output.WriteString(fmt.Sprintf(" | removed %d, freed %s (%.1f/s)",
			status.DirsRemoved,
			humanize.IBytes(uint64(status.BytesFreed)),
			stats.RemovalRate))
	}

	return output.String()
}

type simpleRenderer struct {
	noColor   bool
	showStats bool
}

func (r *simpleRenderer) render(status Status, message string, stats Statistics) string {
	if !r.noColor {
		switch {
		case strings.Contains(message, "Error"):
			message = fmt.Sprintf("\033[31m%s\033[0m", message) // Red for errors
		case strings.Contains(message, "Complete"):
			message = fmt.Sprintf("\033[32m%s\033[0m", message) // Green for completion
		}
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("\r%s", message))

	if status.CurrentPath != "" {
		output.WriteString(fmt.Sprintf(" %s", status.CurrentPath))
	}

	if r.showStats {
		output.WriteString(fmt.Sprintf(" | removed %d directories, %s freed in %s",
			status.DirsRemoved,
			humanize.IBytes(uint64(status.BytesFreed)),
			formatDuration(stats.ElapsedTime)))
	}

	return output.String()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
