// Package compat builds adapters for providers that speak the OpenAI chat
// completions protocol.
package compat

import (
	"nac-advisor/internal/llm"
	"nac-advisor/internal/llm/openai"
)

var (
	// Perplexity is the Perplexity chat endpoint.
	Perplexity = openai.Compatible{
		ID:      llm.ProviderPerplexity,
		EnvVar:  "PERPLEXITY_API_KEY",
		BaseURL: "https://api.perplexity.ai",
		Model:   "sonar",
	}
	// DeepSeek is the DeepSeek chat endpoint.
	DeepSeek = openai.Compatible{
		ID:      llm.ProviderDeepSeek,
		EnvVar:  "DEEPSEEK_API_KEY",
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	}
)

// NewPerplexity constructs the Perplexity adapter.
func NewPerplexity(apiKey string, opts ...openai.Option) (*openai.Adapter, error) {
	return openai.NewCompatible(Perplexity, apiKey, opts...)
}

// NewDeepSeek constructs the DeepSeek adapter.
func NewDeepSeek(apiKey string, opts ...openai.Option) (*openai.Adapter, error) {
	return openai.NewCompatible(DeepSeek, apiKey, opts...)
}
