// Package llmrelevance implements the pluggable LLM relevance gate: the
// LLMRelevanceProvider interface spec.md §6 names, a deterministic stub
// provider for tests and offline runs, and a thin OpenRouter-backed
// network provider.
//
// This package reads no environment variables: the OpenRouter API key
// is whatever the caller passes to NewFactory or NewOpenRouterProvider.
// internal/config resolves MWI_OPENROUTER_API_KEY (env over config
// file) before the CLI hands the key to NewFactory.
package llmrelevance

import "context"

// Provider is spec.md §6's LLMRelevanceProvider.
type Provider interface {
	IsRelevant(ctx context.Context, landTerms []string, expressionText string) (bool, error)
	ModelName() string
}

// Factory builds a named Provider, mirroring the teacher's
// search.ProviderFactory/readable.ExtractorFactory shape.
type Factory struct {
	OpenRouterAPIKey string
}

// NewFactory builds a Factory carrying the resolved API key.
func NewFactory(apiKey string) *Factory {
	return &Factory{OpenRouterAPIKey: apiKey}
}

// Create builds the provider named by kind. Any kind other than
// "openrouter" (including "") yields the stub, which never calls out to
// the network; "openrouter" yields the network provider when
// f.OpenRouterAPIKey is set and falls back to the stub otherwise.
func (f *Factory) Create(kind string) Provider {
	switch kind {
	case "openrouter":
		if f.OpenRouterAPIKey != "" {
			return NewOpenRouterProvider(f.OpenRouterAPIKey, "")
		}
		return NewStubProvider()
	default:
		return NewStubProvider()
	}
}
