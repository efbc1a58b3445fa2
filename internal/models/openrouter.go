package models

import (
	"context"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterModel 通过 OpenRouter 转发请求，modelName 为 OpenRouter 的模型标识，
// 例如 "anthropic/claude-sonnet-4"。
func NewOpenRouterModel(ctx context.Context, modelName string, cfg *genai.ClientConfig) (model.LLM, error) {
	m, err := newCompatibleModel(strings.TrimPrefix(modelName, "openrouter/"), cfg, openRouterBaseURL, "openrouter-go")
	if err != nil {
		return nil, err
	}
	return m, nil
}
