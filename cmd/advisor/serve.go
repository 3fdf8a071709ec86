package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/app"
	httpapi "github.com/tbourn/go-startup-advisor/internal/http"
	"github.com/tbourn/go-startup-advisor/internal/observability"
	"github.com/tbourn/go-startup-advisor/internal/repo"
	"github.com/tbourn/go-startup-advisor/internal/sysutil"
)

// purgeEvery is the interval between sweeps of expired turn replays.
const purgeEvery = time.Hour

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	cfg := c.cfg
	gin.SetMode(cfg.GinMode)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, sysutil.Version(),
		observability.ServiceAttributes(cfg.OpenAI)...)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := c.openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	client := app.NewClient(cfg.OpenAI)
	if client == nil {
		log.Warn().Msg("OPENAI_API_KEY is not set; advice turns will answer with an error placeholder")
	}
	a := app.New(cfg, db, client)

	go purgeReplays(ctx, db, purgeEvery)

	r := gin.New()
	httpapi.RegisterRoutes(r, a, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", sysutil.Version()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

// purgeReplays deletes expired turn replays now and then every
// interval until ctx is done.
func purgeReplays(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		n, err := repo.PurgeReplays(ctx, db, time.Now())
		if err != nil {
			log.Warn().Err(err).Msg("turn replay purge failed")
		} else if n > 0 {
			log.Info().Int64("deleted", n).Msg("expired turn replays purged")
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
