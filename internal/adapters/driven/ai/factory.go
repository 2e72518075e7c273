package ai

import (
	"fmt"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
)

// Supported provider names.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// EmbeddingSettings configures an embedding provider.
type EmbeddingSettings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// GenerationSettings configures a text generation provider.
type GenerationSettings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// CreateEmbeddingService creates an embedding service from settings
func CreateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case ProviderOpenAI:
		return NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaEmbedding(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateGenerationService creates a generation service from settings
func CreateGenerationService(settings GenerationSettings) (driven.GenerationService, error) {
	switch settings.Provider {
	case ProviderOpenAI:
		return NewOpenAILLM(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaLLM(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
