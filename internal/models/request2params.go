package models

import (
	"encoding/json"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go/v3"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-integrate/internal/utils"
)

// buildOpenAIParams 将 ADK 请求转换为 OpenAI 聊天补全参数。
func buildOpenAIParams(req *model.LLMRequest, model string) *openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: req.Model,
	}
	if req.Model == "" {
		params.Model = model
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.Config != nil && req.Config.SystemInstruction != nil {
		if system := utils.ExtractContentText(req.Config.SystemInstruction); system != "" {
			messages = append(messages, openai.SystemMessage(system))
		}
	}
	messages = append(messages, convertContentsToMessages(req.Contents)...)
	if len(messages) > 0 {
		params.Messages = messages
	}

	if req.Config != nil {
		if req.Config.Temperature != nil {
			params.Temperature = openai.Float(float64(*req.Config.Temperature))
		}
		if req.Config.MaxOutputTokens > 0 {
			params.MaxTokens = openai.Int(int64(req.Config.MaxOutputTokens))
		}
		if req.Config.TopP != nil {
			params.TopP = openai.Float(float64(*req.Config.TopP))
		}
		if format, ok := convertResponseFormat(req.Config); ok {
			params.ResponseFormat = format
		}
	}

	return &params
}

// convertResponseFormat 将 JSON 响应 schema 映射为 OpenAI 的 json_schema 响应格式。
func convertResponseFormat(cfg *genai.GenerateContentConfig) (openai.ChatCompletionNewParamsResponseFormatUnion, bool) {
	var schema map[string]any
	switch s := cfg.ResponseJsonSchema.(type) {
	case *jsonschema.Schema:
		if s != nil {
			schema = convertSchemaToJSONSchema(s)
		}
	case map[string]any:
		schema = s
	}

	if schema == nil {
		if cfg.ResponseMIMEType == "application/json" {
			return openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
			}, true
		}
		return openai.ChatCompletionNewParamsResponseFormatUnion{}, false
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   "companion_reply",
				Strict: openai.Bool(true),
				Schema: schema,
			},
		},
	}, true
}

// convertSchemaToJSONSchema 将对象 schema 转换为普通的 JSON Schema map。
// strict 模式要求每个对象都禁止额外属性。
func convertSchemaToJSONSchema(schema *jsonschema.Schema) map[string]any {
	result := convertSchemaProperty(schema)
	if _, ok := result["type"]; !ok {
		result["type"] = "object"
	}
	if _, ok := result["required"]; !ok {
		result["required"] = []string{}
	}
	return result
}

// convertSchemaProperty 将单个 jsonschema.Schema 属性转换为 JSON Schema 格式
func convertSchemaProperty(schema *jsonschema.Schema) map[string]any {
	if schema == nil {
		return nil
	}

	prop := make(map[string]any)

	// 处理类型，同时支持单一类型和多类型
	if len(schema.Types) > 0 {
		prop["type"] = schema.Types[0]
	} else if schema.Type != "" {
		prop["type"] = schema.Type
	}

	if schema.Description != "" {
		prop["description"] = schema.Description
	}

	if len(schema.Enum) > 0 {
		prop["enum"] = schema.Enum
	}

	if len(schema.Default) > 0 {
		var defaultVal any
		if err := json.Unmarshal(schema.Default, &defaultVal); err == nil {
			prop["default"] = defaultVal
		}
	}

	if schema.MinLength != nil {
		prop["minLength"] = *schema.MinLength
	}
	if schema.MaxLength != nil {
		prop["maxLength"] = *schema.MaxLength
	}

	if schema.Items != nil {
		prop["items"] = convertSchemaProperty(schema.Items)
	}

	if len(schema.Properties) > 0 {
		properties := make(map[string]any)
		for name, propSchema := range schema.Properties {
			if propSchema != nil {
				properties[name] = convertSchemaProperty(propSchema)
			}
		}
		prop["properties"] = properties
		prop["additionalProperties"] = false
	}

	if len(schema.Required) > 0 {
		prop["required"] = schema.Required
	}

	return prop
}

// convertContentsToMessages 将 genai.Content 转换为 OpenAI 消息
func convertContentsToMessages(contents []*genai.Content) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	for _, content := range contents {
		if content == nil {
			continue
		}

		var sb strings.Builder
		for _, part := range content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		textContent := sb.String()

		switch content.Role {
		case genai.RoleUser:
			messages = append(messages, openai.UserMessage(textContent))
		case genai.RoleModel:
			messages = append(messages, openai.AssistantMessage(textContent))
		case "system":
			messages = append(messages, openai.SystemMessage(textContent))
		default:
			messages = append(messages, openai.UserMessage(textContent))
		}
	}

	return messages
}
