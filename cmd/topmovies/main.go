package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/user/top-movies-go/internal/config"
	"github.com/user/top-movies-go/internal/provider"
	"github.com/user/top-movies-go/internal/server"
	"github.com/user/top-movies-go/internal/store"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 30 * time.Second
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	setupLogging(&cfg.Log)
	log.Info().Str("driver", cfg.DB.Driver).Msg("Configuration loaded successfully")

	movieStore, err := store.NewGormStore(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Database connection established")

	tmdb, err := provider.NewTMDBClient(&provider.Config{
		BaseURL:      cfg.Provider.BaseURL,
		Token:        cfg.Provider.Token,
		Language:     cfg.Provider.Language,
		IncludeAdult: cfg.Provider.IncludeAdult,
		Timeout:      cfg.Provider.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create TMDB client")
	}
	log.Info().Str("baseURL", cfg.Provider.BaseURL).Msg("TMDB client initialized")

	httpServer, err := server.NewServer(movieStore, tmdb, server.Options{
		ImageBaseURL:  cfg.Provider.ImageBaseURL,
		SessionSecret: cfg.Server.SessionSecret,
		SecureCookies: cfg.Server.SecureCookies,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create HTTP server")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
			sigCh <- syscall.SIGTERM
		}
	}()

	log.Info().Msg("Top Movies started successfully")

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
	if err := movieStore.Close(); err != nil {
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

// setupLogging applies the configured level and optional console output
func setupLogging(cfg *config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", cfg.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}
