package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ErrInterrupted is the cancellation cause once a shutdown signal arrives.
var ErrInterrupted = errors.New("interrupted")

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalContext derives a context that is canceled on SIGINT or SIGTERM,
// with ErrInterrupted as its cause. A second signal exits the process with
// ExitError without waiting for in-flight work. The returned stop function
// releases the signal registration and cancels the context.
func SignalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, shutdownSignals...)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
			cancel(fmt.Errorf("%w by %s", ErrInterrupted, sig))
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warn("second signal received, exiting", "signal", sig.String())
			os.Exit(ExitError)
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
			cancel(context.Canceled)
		})
	}
	return ctx, stop
}
