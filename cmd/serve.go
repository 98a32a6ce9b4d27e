package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/angeloszaimis/relay-frontend/internal/httpserver"
)

// serveUntilDone serves on already bound servers until ctx is cancelled or
// one of them fails, then shuts all of them down.
func serveUntilDone(ctx context.Context, log *slog.Logger, servers ...*httpserver.Server) error {
	srvErrCh := make(chan error, len(servers))

	for _, srv := range servers {
		go func() {
			srvErrCh <- srv.Serve()
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case serveErr = <-srvErrCh:
		log.Error("Server stopped", slog.Any("err", serveErr))
	}

	errs := []error{serveErr}
	for _, srv := range servers {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
