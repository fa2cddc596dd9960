package services

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"drawmcp/pkg/generator"
)

// Generation providers selectable via GENERATOR_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// TextGeneratorConfig selects and configures the generation backend.
type TextGeneratorConfig struct {
	Provider string
	OpenAI   OpenAIConfig
	// Gemini settings; GeminiModel defaults inside the generator.
	GeminiAPIKey string
	GeminiModel  string
}

// TextGeneratorConfigFromEnv assembles the backend config from the
// environment. The provider defaults to openai.
func TextGeneratorConfigFromEnv() TextGeneratorConfig {
	provider := os.Getenv("GENERATOR_PROVIDER")
	if provider == "" {
		provider = ProviderOpenAI
	}
	return TextGeneratorConfig{
		Provider:     provider,
		OpenAI:       OpenAIConfigFromEnv(),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
	}
}

// NewTextGenerator builds the configured generation backend.
func NewTextGenerator(ctx context.Context, cfg TextGeneratorConfig) (generator.TextGenerator, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		client, err := NewOpenAIClient(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return generator.NewOpenAIGenerator(client, cfg.OpenAI.ModelOrDefault()), nil
	case ProviderGemini:
		return generator.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, errors.Errorf("unknown generator provider %q", cfg.Provider)
	}
}
