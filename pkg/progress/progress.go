/*
Package progress renders live cleanup feedback on a terminal. It shows the
directory currently being removed together with running counters for removed
directories and reclaimed space.

Output degrades gracefully: on a non-terminal writer ANSI clearing is skipped
and the caller can disable the display entirely.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/yarenty/cleaner/pkg/logger"
	"golang.org/x/term"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	// State
	status    Status
	startTime time.Time
	message   string
	isActive  bool
	hasError  bool
	started   bool
	stopped   bool

	// Rendering
	renderer    renderer
	refreshRate time.Duration

	// Synchronization
	mu       sync.RWMutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a new progress visualization instance
func New(config Config, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	p := &progress{
		config:      config,
		log:         log,
		writer:      config.Output,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
		refreshRate: config.RefreshRate,
	}

	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":     p.config.Style,
		"showStats": p.config.ShowStats,
		"noColor":   p.config.NoColor,
		"refresh":   p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.startTime = time.Now()
	p.isActive = true
	p.hasError = false
	p.started = true

	go p.renderLoop()
}

func (p *progress) Update(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"path":    status.CurrentPath,
		"removed": status.DirsRemoved,
		"freed":   status.BytesFreed,
	}).Trace("Updating progress")

	p.status = status

	if p.isActive {
		p.render()
	}
}

func (p *progress) Complete(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Completing progress")

	p.message = message
	p.status.CurrentPath = ""
	p.render()
	fmt.Fprintln(p.writer)
	p.isActive = false
}

func (p *progress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Error in progress")

	p.message = message
	p.hasError = true
	p.isActive = false
	p.render()
}

// Stop terminates the render loop and clears the progress line. The mutex
// must not be held while waiting for the loop to exit: the loop takes it on
// every tick, so waiting under the lock deadlocks.
func (p *progress) Stop() {
	p.mu.Lock()
	p.log.Debug("Stopping progress")

	wait := p.started && !p.stopped
	if wait {
		p.stopped = true
		close(p.stopChan)
	}
	p.isActive = false
	p.mu.Unlock()

	if wait {
		<-p.doneChan
	}

	p.clearLine()
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Internal methods

func (p *progress) renderLoop() {
	ticker := time.NewTicker(p.refreshRate)
	defer ticker.Stop()
	defer close(p.doneChan)

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.isActive {
				p.render()
			}
			p.mu.Unlock()
		}
	}
}

func (p *progress) render() {
	output := p.renderer.render(p.status, p.message, p.calculateStats())
	p.clearLine()
	fmt.Fprint(p.writer, output)
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

func (p *progress) calculateStats() Statistics {
	elapsed := time.Since(p.startTime)

	stats := Statistics{
		StartTime:   p.startTime,
		ElapsedTime: elapsed,
	}

	if elapsed > 0 {
		stats.RemovalRate = float64(p.status.DirsRemoved) / elapsed.Seconds()
	}

	return stats
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleSpinner:
		return &spinnerRenderer{
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	default:
		return &simpleRenderer{
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	}
}
