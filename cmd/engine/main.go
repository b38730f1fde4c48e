// Package main provides the entry point for the recommendation engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"

	"github.com/manascope/manascope/internal/config"
	"github.com/manascope/manascope/internal/db/gorm"
	"github.com/manascope/manascope/internal/edhrec"
	"github.com/manascope/manascope/internal/genai"
	"github.com/manascope/manascope/internal/reccache"
	"github.com/manascope/manascope/internal/recommend"
	"github.com/manascope/manascope/internal/server"
	"github.com/manascope/manascope/internal/themes"
	"github.com/manascope/manascope/pkg/models"
)

var Version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().
		Str("version", Version).
		Msg("Starting manascope engine")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := gorm.NewStore(gorm.Config{
		Path:     cfg.DBPath,
		MaxConns: cfg.MaxConns,
		LogLevel: gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	cards := gorm.NewCardStore(store)
	assignments := gorm.NewThemeStore(store)

	generator := genai.NewService(cfg)
	extractor := themes.NewExtractor(assignments, generator)

	upstream := edhrec.NewClient(edhrec.Options{
		BaseURL:     cfg.UpstreamBaseURL,
		MinInterval: cfg.UpstreamRate,
	})
	recCache := reccache.New[*models.UpstreamRecs](cfg.RecTTL, cfg.RecSweepInterval)

	recs := recommend.NewService(cards, assignments, extractor, upstream, recCache)

	svc := server.NewService(Version, cfg.HTTPPort, recs)
	svc.Start()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	log.Info().Msg("Engine shutdown complete")
}
