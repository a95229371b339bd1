// Package ai provides factory functions for creating provider adapters
// from the persisted configuration.
package ai

import (
	"fmt"

	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/anthropic"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/gemini"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/ollama"
	"github.com/notedmd/notedmd-cli/internal/adapters/driven/llm/openai"
	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
)

// Overrides carries per-invocation credential overrides. Flags take
// precedence over the persisted configuration; nothing here is saved.
type Overrides struct {
	// APIKey replaces the active provider's stored key for this run.
	APIKey string
}

// CreateTranscriber builds the transcriber for the configuration's
// active provider. The provider is selected once at startup and never
// re-selected mid-run.
func CreateTranscriber(cfg *domain.Config, ov Overrides) (driven.Transcriber, error) {
	if cfg.ActiveProvider == "" {
		return nil, domain.ErrNoActiveProvider
	}

	switch cfg.ActiveProvider {
	case domain.ProviderGemini:
		return createGemini(cfg, ov)
	case domain.ProviderClaude:
		return createClaude(cfg, ov)
	case domain.ProviderOllama:
		return createOllama(cfg)
	case domain.ProviderOpenAI:
		return createOpenAI(cfg, ov)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrConfigInvalid, cfg.ActiveProvider)
	}
}

func createGemini(cfg *domain.Config, ov Overrides) (driven.Transcriber, error) {
	apiKey := ov.APIKey
	var model string
	if cfg.Gemini != nil {
		if apiKey == "" {
			apiKey = cfg.Gemini.APIKey
		}
		model = cfg.Gemini.Model
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini", domain.ErrProviderNotConfigured)
	}

	return gemini.NewTranscriber(gemini.Config{
		APIKey: apiKey,
		Model:  model,
	})
}

func createClaude(cfg *domain.Config, ov Overrides) (driven.Transcriber, error) {
	apiKey := ov.APIKey
	var model string
	if cfg.Claude != nil {
		if apiKey == "" {
			apiKey = cfg.Claude.APIKey
		}
		model = cfg.Claude.Model
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: claude", domain.ErrProviderNotConfigured)
	}

	return anthropic.NewTranscriber(anthropic.Config{
		APIKey: apiKey,
		Model:  model,
	})
}

func createOllama(cfg *domain.Config) (driven.Transcriber, error) {
	if cfg.Ollama == nil || cfg.Ollama.URL == "" || cfg.Ollama.Model == "" {
		return nil, fmt.Errorf("%w: ollama", domain.ErrProviderNotConfigured)
	}

	return ollama.NewTranscriber(ollama.Config{
		BaseURL: cfg.Ollama.URL,
		Model:   cfg.Ollama.Model,
	}), nil
}

func createOpenAI(cfg *domain.Config, ov Overrides) (driven.Transcriber, error) {
	if cfg.OpenAI == nil || cfg.OpenAI.URL == "" || cfg.OpenAI.Model == "" {
		return nil, fmt.Errorf("%w: openai", domain.ErrProviderNotConfigured)
	}

	apiKey := ov.APIKey
	if apiKey == "" {
		apiKey = cfg.OpenAI.APIKey
	}

	return openai.NewTranscriber(openai.Config{
		BaseURL: cfg.OpenAI.URL,
		Model:   cfg.OpenAI.Model,
		APIKey:  apiKey,
	})
}
