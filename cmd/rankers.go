package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/skillswap/internal/matching"
	"github.com/spigell/skillswap/internal/matching/gemini"
	"github.com/spigell/skillswap/internal/matching/local"
	"github.com/spigell/skillswap/internal/secrets"
)

const (
	rankerGemini = "gemini"
	rankerLocal  = "local"
)

// newRanker builds the configured ranker. Every ranker is wrapped so that at most one ranking
// call is in flight.
func newRanker(ctx context.Context, config *Config, logger *zap.Logger) (matching.Ranker, error) {
	switch name := strings.ToLower(strings.TrimSpace(config.Ranker)); name {
	case rankerLocal:
		return matching.Exclusive(local.NewRanker(config.AI.Local.Limit, logger)), nil
	case rankerGemini, "":
		ranker, err := newGeminiRanker(ctx, config, logger)
		if err != nil {
			return nil, err
		}
		return matching.Exclusive(ranker), nil
	default:
		return nil, fmt.Errorf("unsupported ranker: %s", config.Ranker)
	}
}

func newGeminiRanker(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Ranker, error) {
	cfg := config.AI.Gemini

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		Temperature: cfg.Temperature,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewRanker(generator, config.MaxCandidates, cfg.MaxLogLength, logger), nil
}
