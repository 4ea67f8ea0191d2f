package utils

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// GracefulShutdown blocks until SIGINT, SIGTERM or ctx is done, then stops srv
// within timeout and runs closers in order. It returns the first error seen.
func GracefulShutdown(ctx context.Context, srv *http.Server, timeout time.Duration, log *logrus.Logger, closers ...func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
		errs = append(errs, err)
	}
	for _, closeFn := range closers {
		if err := closeFn(shutdownCtx); err != nil {
			log.WithError(err).Warn("closing dependency failed")
			errs = append(errs, err)
		}
	}
	log.Info("server stopped")
	return errors.Join(errs...)
}

// ListenAndServe runs srv and reports unexpected listener failures on the
// returned channel.
func ListenAndServe(srv *http.Server) <-chan error {
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	return errc
}
