package models

import (
	"context"
	"fmt"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// NewLLM builds the model.LLM for a provider name. "none" and "" return nil
// without error; callers then run fallback-only.
func NewLLM(ctx context.Context, provider, modelName, apiKey string) (model.LLM, error) {
	cfg := &genai.ClientConfig{APIKey: apiKey}
	switch provider {
	case "", "none":
		return nil, nil
	case "openai":
		return NewOpenAIModel(ctx, modelName, cfg)
	case "grok":
		return NewGrokModel(ctx, modelName, cfg)
	case "openrouter":
		return NewOpenRouterModel(ctx, modelName, cfg)
	case "gemini":
		return NewGeminiModel(ctx, modelName, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}
