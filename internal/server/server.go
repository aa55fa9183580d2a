package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"bizpos-backend/internal/config"
)

// Start listens on cfg.HTTPPort and serves router until ctx is cancelled.
func Start(ctx context.Context, cfg config.Config, router http.Handler, log *slog.Logger) error {
	ln, err := net.Listen("tcp", ":"+cfg.HTTPPort)
	if err != nil {
		return fmt.Errorf("listen on :%s: %w", cfg.HTTPPort, err)
	}
	return Serve(ctx, cfg, ln, router, log)
}

// Serve runs the HTTP server on ln with graceful shutdown. In-flight requests
// get cfg.ShutdownTimeout to finish once ctx is done.
func Serve(ctx context.Context, cfg config.Config, ln net.Listener, router http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", "addr", ln.Addr().String(), "store", cfg.StoreDriver)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Info("http server shutting down", "timeout", timeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
