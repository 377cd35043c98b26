// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package server implements C6, the server runner: binds the facade to a
// listen address and exposes a graceful shutdown on SIGINT/SIGTERM (spec
// §6.4). Grounded on the teacher's examples/watch-jobs signal.Notify
// pattern, extended to also drive an *http.Server's graceful Shutdown.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chikage0o0/reservation/internal/logging"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests to drain
// after a shutdown signal before forcing the listener closed.
const ShutdownTimeout = 10 * time.Second

// Run serves handler on addr until ctx is cancelled or a SIGINT/SIGTERM is
// received, then drains in-flight requests (bounded by ShutdownTimeout)
// before returning. A clean shutdown returns nil (spec §6.4: exit code 0).
func Run(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ctx, ln, handler, logger)
}

// serve is Run's core, taking an already-bound listener so tests can use an
// ephemeral port without a bind-address race.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	srv := &http.Server{Handler: handler}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-sigCtx.Done():
		logger.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}
