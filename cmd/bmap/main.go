package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lcalzada-xor/bmap/internal/app"
	"github.com/lcalzada-xor/bmap/internal/config"
	"github.com/lcalzada-xor/bmap/internal/telemetry"
)

func main() {
	// Setup Structured Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// load config
	cfg := config.Load()
	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	// Initialize Tracing
	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		logger.Error().Err(err).Msg("failed to init tracer")
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown tracer")
			}
		}()
	}

	// Initialize Application
	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize application")
		os.Exit(1)
	}

	// Root Context with cancellation on Interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info().Msg("bmap starting")

	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("application error")
		cancel()
		os.Exit(1)
	}
}
