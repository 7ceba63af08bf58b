/*
Package app signal handling. A first SIGINT or SIGTERM cancels dispatch so
no new deletions start while in-flight ones finish and the summary is still
printed. A second signal exits immediately.
*/
package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/yarenty/cleaner/internal/exitcodes"
	"github.com/yarenty/cleaner/pkg/logger"
)

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() {
	state := &signalState{}

	a.log.Debug("Initializing signal handlers")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	go a.handleSignals(sigChan, state)
}

// handleSignals processes incoming system signals
func (a *App) handleSignals(sigChan chan os.Signal, state *signalState) {
	for sig := range sigChan {
		a.log.WithFields(logger.Fields{
			"signal": sig.String(),
		}).Debug("Received system signal")

		if state.shutdownInitiated.Load() {
			a.handleForcedShutdown()
			return
		}
		if !state.shutdownInitiated.CompareAndSwap(false, true) {
			continue
		}

		a.handleGracefulShutdown()
	}
}

// handleGracefulShutdown stops dispatching new deletions. In-flight
// removals are left to finish so no directory is half deleted.
func (a *App) handleGracefulShutdown() {
	a.log.Info("Interrupt received, stopping dispatch")

	if a.progress != nil {
		a.progress.Error("Error: interrupted, waiting for in-flight removals")
	}

	a.cancel()
}

// handleForcedShutdown exits immediately on a repeated signal
func (a *App) handleForcedShutdown() {
	a.log.Warn("Second interrupt, forcing shutdown")

	if a.progress != nil {
		a.progress.Stop()
	}

	os.Exit(exitcodes.Interrupted)
}
