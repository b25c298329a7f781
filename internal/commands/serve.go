package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirrorbank/backend/internal/controllers/v1"
	"github.com/mirrorbank/backend/internal/notify"
	"github.com/mirrorbank/backend/internal/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// shutdownTimeout is the time in-flight requests get to finish on shutdown.
const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// controller returns the API controller for the configuration.
func (a *app) controller() v1.Controller {
	return v1.Controller{
		DefaultOwner: a.cfg.Owner,
		Policy:       a.cfg.Policy,
		Recurring:    a.cfg.Recurring,
		Notifier:     notify.New(a.cfg.Notify),
	}
}

func (a *app) serve(ctx context.Context) error {
	r, teardown, err := router.Config(a.cfg.APIURL, router.Options{
		AllowOrigins: a.cfg.AllowOrigins,
		Pprof:        a.cfg.Pprof,
	})
	if err != nil {
		return err
	}
	defer teardown()

	router.AttachRoutes(a.controller(), r.Group("/"))

	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
