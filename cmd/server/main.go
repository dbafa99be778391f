package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/sketchspy/sketchspy/internal/adapters/http"
	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/app/orch"
	"github.com/sketchspy/sketchspy/internal/config"
	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/metrics"
	"github.com/sketchspy/sketchspy/internal/prompt"
)

func logLevel(traceLevel int) zerolog.Level {
	switch {
	case traceLevel >= 2:
		return zerolog.TraceLevel
	case traceLevel == 1:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// .env first so viper's env binding sees it.
	_ = godotenv.Load()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		cfg = config.Default()
	}
	zerolog.SetGlobalLevel(logLevel(cfg.TraceLevel))

	selector := core.NewSelector()
	registry := app.NewRegistry()
	lobbies := app.NewLobbyManager(selector)
	mset := metrics.New()

	o := &orch.Orchestrator{
		Registry: registry,
		Lobbies:  lobbies,
		Acks:     app.NewAckBroker(),
		Relay:    app.NewDrawRelay(registry, lobbies),
		Prompts:  prompt.NewGenerator(selector),
		Policy:   app.SimplePolicy{},
		Cfg:      cfg,
		Metrics:  mset,
	}

	r := router.SetupRouter(ctx, cfg, o, mset)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Sketchspy server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
