package provider

import (
	"context"
	"net/http"
	"strings"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openaicompat"
)

// LanguageModelProvider resolves a model by name
type LanguageModelProvider interface {
	LanguageModel(context.Context, string) (fantasy.LanguageModel, error)
}

// CreateProvider creates a provider based on type. httpClient may be nil.
func CreateProvider(cfg Config, httpClient *http.Client) (LanguageModelProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		return CreateAnthropicProvider(cfg.APIKey, cfg.BaseURL, httpClient)
	default:
		return CreateOpenAIProvider(cfg.APIKey, cfg.BaseURL, httpClient)
	}
}

// CreateAnthropicProvider creates an Anthropic provider
func CreateAnthropicProvider(apiKey, baseURL string, httpClient *http.Client) (LanguageModelProvider, error) {
	var opts []anthropic.Option
	opts = append(opts, anthropic.WithAPIKey(apiKey))
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(httpClient))
	}
	return anthropic.New(opts...)
}

// CreateOpenAIProvider creates an OpenAI-compatible provider
func CreateOpenAIProvider(apiKey, baseURL string, httpClient *http.Client) (LanguageModelProvider, error) {
	// Ollama, LM Studio, DeepSeek and friends go through openaicompat
	if !strings.Contains(baseURL, "api.openai.com") {
		var opts []openaicompat.Option
		opts = append(opts, openaicompat.WithAPIKey(apiKey), openaicompat.WithBaseURL(baseURL))
		if httpClient != nil {
			opts = append(opts, openaicompat.WithHTTPClient(httpClient))
		}
		return openaicompat.New(opts...)
	}

	var opts []openai.Option
	opts = append(opts, openai.WithAPIKey(apiKey), openai.WithBaseURL(baseURL))
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}
	return openai.New(opts...)
}
