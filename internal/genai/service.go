package genai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/manascope/manascope/internal/config"
)

// providerFactories lists providers in probe priority order. The first
// factory whose credentials are available wins at construction time.
var providerFactories = []struct {
	name  string
	build func(*config.Config) (Provider, error)
}{
	{"anthropic", newAnthropicProvider},
	{"openai", newOpenAIProvider},
}

// Service is the text-generation gateway. Constructed once per process and
// passed by injection; when no provider credentials are available it stays
// permanently not ready and every Generate call reports no result.
type Service struct {
	provider Provider
}

// NewService probes the provider priority list and binds the first
// available provider. A Service with no provider is still valid.
func NewService(cfg *config.Config) *Service {
	for _, f := range providerFactories {
		provider, err := f.build(cfg)
		if err != nil {
			log.Debug().Str("provider", f.name).Err(err).Msg("Generation provider unavailable")
			continue
		}
		log.Info().Str("provider", f.name).Msg("Text-generation provider bound")
		return &Service{provider: provider}
	}
	log.Warn().Msg("No text-generation provider available, theme extraction will use heuristics only")
	return &Service{}
}

// NewServiceWithProvider creates a gateway around an explicit provider.
// Used by tests to substitute a fake backend.
func NewServiceWithProvider(p Provider) *Service {
	return &Service{provider: p}
}

// Ready reports whether a provider is bound.
func (s *Service) Ready() bool {
	return s.provider != nil
}

// ProviderName returns the bound provider's name, or empty when not ready.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Generate produces text for a prompt. It never returns an error: any
// transport or provider failure is logged and reported as ok=false,
// pushing the caller onto its fallback path.
func (s *Service) Generate(ctx context.Context, prompt string) (string, bool) {
	if s.provider == nil {
		return "", false
	}
	if prompt == "" {
		return "", false
	}

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		log.Warn().
			Str("provider", s.provider.Name()).
			Err(fmt.Errorf("generate: %w", err)).
			Msg("Text generation failed")
		return "", false
	}
	return text, true
}
