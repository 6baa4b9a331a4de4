package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	adapterhttp "github.com/duskline/walkie/internal/adapters/http"
	"github.com/duskline/walkie/internal/app"
	"github.com/duskline/walkie/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay's signalling and admin HTTP server",
	RunE:  runServe,
}

// runServe wires config → session registry → channel registry →
// orchestrator → watchdog → router → graceful shutdown, the same shape
// as the teacher's cmd/server/main.go.
func runServe(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return err
	}

	startedAt := time.Now()
	sessions := app.NewRegistry(log)
	channels := app.NewChannelRegistry(ctx, log)
	orch := app.NewOrchestrator(sessions, channels, log)

	watchdog := app.NewWatchdog(orch, log)
	go watchdog.Run(ctx)

	router := adapterhttp.SetupRouter(cfg, orch, startedAt, log)
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("walkie relay started")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("bind failure")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	log.Info().Msg("server exited gracefully")
	return nil
}
