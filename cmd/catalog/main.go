package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/user/catalog-api/internal/config"
	"github.com/user/catalog-api/internal/server"
	"github.com/user/catalog-api/internal/store"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 30 * time.Second
)

func main() {
	// Structured JSON logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("driver", cfg.DB.Driver).Msg("Configuration loaded successfully")

	db, err := store.Open(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Database connection established")

	httpServer := server.NewServer(db, &cfg.Server)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("Catalog API started")

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	log.Info().Msg("Starting graceful shutdown...")

	// 1. Stop accepting requests and drain in-flight ones
	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	// 2. Close database connection pool
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	} else {
		log.Info().Msg("Database connection closed")
	}

	select {
	case <-shutdownCtx.Done():
		if shutdownCtx.Err() == context.DeadlineExceeded {
			log.Warn().Msg("Shutdown timeout exceeded, forcing exit")
		}
	default:
		log.Info().Msg("Graceful shutdown completed")
	}
}
