// Package server provides the HTTP surface for the recommendation engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/manascope/manascope/internal/recommend"
)

// Server timeouts.
const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Service is the HTTP service wrapping the recommendation facade.
type Service struct {
	version   string
	recs      *recommend.Service
	router    *chi.Mux
	server    *http.Server
	startTime time.Time
}

// NewService creates the HTTP service.
func NewService(version string, port int, recs *recommend.Service) *Service {
	s := &Service{
		version:   version,
		recs:      recs,
		startTime: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/themes", s.handleVocabulary)
	r.Route("/api/cards/{id}", func(r chi.Router) {
		r.Get("/themes", s.handleThemeSuggestions)
		r.Get("/synergy", s.handleSynergy)
		r.Get("/commander-recs", s.handleUpstreamRecs)
	})

	s.router = r
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", port),
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// Router returns the chi router, used by tests.
func (s *Service) Router() http.Handler {
	return s.router
}

// Start begins serving in a background goroutine.
func (s *Service) Start() {
	go func() {
		log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()
}

// Shutdown gracefully stops the server and the facade's background work.
func (s *Service) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.recs.Close()
	return err
}
