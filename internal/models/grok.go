package models

import (
	"context"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const grokBaseURL = "https://api.x.ai/v1"

// NewGrokModel 创建 Grok 模型实例。
//
// 使用传入的配置初始化底层的 OpenAI 兼容客户端，modelName 指定目标 Grok 模型
// （例如 "grok-3-mini"、"grok-4"）。
func NewGrokModel(ctx context.Context, modelName string, cfg *genai.ClientConfig) (model.LLM, error) {
	m, err := newCompatibleModel(modelName, cfg, grokBaseURL, "grok-go")
	if err != nil {
		return nil, err
	}
	return m, nil
}
