package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// RemoteReply 是向远程模型请求的结构化回复。
type RemoteReply struct {
	Reply string `json:"reply" jsonschema:"the message shown to the user, warm and concise, at most one question"`
}

var (
	replySchemaOnce     sync.Once
	replySchema         *jsonschema.Schema
	replySchemaResolved *jsonschema.Resolved
	replySchemaErr      error
)

// ReplySchema 返回描述 RemoteReply 的 JSON schema。
func ReplySchema() (*jsonschema.Schema, error) {
	loadReplySchema()
	return replySchema, replySchemaErr
}

func loadReplySchema() {
	replySchemaOnce.Do(func() {
		schema, err := jsonschema.For[RemoteReply](nil)
		if err != nil {
			replySchemaErr = fmt.Errorf("failed to infer reply schema: %w", err)
			return
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			replySchemaErr = fmt.Errorf("failed to resolve reply schema: %w", err)
			return
		}
		replySchema = schema
		replySchemaResolved = resolved
	})
}

// ParseRemoteReply 从模型原始输出中提取并校验结构化回复。
func ParseRemoteReply(raw string) (RemoteReply, error) {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return RemoteReply{}, fmt.Errorf("reply is not a JSON object")
	}
	clean = clean[start : end+1]

	var instance map[string]any
	if err := json.Unmarshal([]byte(clean), &instance); err != nil {
		return RemoteReply{}, fmt.Errorf("failed to parse remote reply: %w", err)
	}

	loadReplySchema()
	if replySchemaErr != nil {
		return RemoteReply{}, replySchemaErr
	}
	if err := replySchemaResolved.Validate(instance); err != nil {
		return RemoteReply{}, fmt.Errorf("remote reply does not match schema: %w", err)
	}

	text, _ := instance["reply"].(string)
	text = strings.TrimSpace(text)
	if text == "" {
		return RemoteReply{}, fmt.Errorf("missing reply")
	}
	return RemoteReply{Reply: text}, nil
}
