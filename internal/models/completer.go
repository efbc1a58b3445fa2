package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-integrate/internal/types"
	"github.com/easeaico/project-integrate/internal/utils"
)

// Status codes used for failures that never reached the remote API.
const (
	StatusClientClosed  = 499
	StatusNotConfigured = http.StatusServiceUnavailable
)

// ChatTurn is one history entry sent to the remote model.
type ChatTurn struct {
	Role    types.Role
	Content string
}

// Request is a remote completion request.
type Request struct {
	SystemInstructions string
	History            []ChatTurn
	MaxTokens          int
}

// Completer produces the raw reply text for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// RemoteError is any failure of the remote call, with an HTTP-like status.
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote model error %d: %s", e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// LLMCompleter calls a model.LLM under a timeout and asks for the JSON reply schema.
type LLMCompleter struct {
	model   model.LLM
	timeout time.Duration
}

// NewLLMCompleter returns an LLMCompleter. A non-positive timeout defaults to 20 seconds.
func NewLLMCompleter(m model.LLM, timeout time.Duration) *LLMCompleter {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &LLMCompleter{model: m, timeout: timeout}
}

type completion struct {
	text string
	err  error
}

// Complete implements Completer. Every error it returns is a *RemoteError.
func (c *LLMCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if c == nil || c.model == nil {
		return "", &RemoteError{Status: StatusNotConfigured, Message: "remote model not configured"}
	}

	schema, err := utils.ReplySchema()
	if err != nil {
		return "", &RemoteError{Status: http.StatusInternalServerError, Message: "reply schema unavailable", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	llmReq := &model.LLMRequest{
		Contents: historyContents(req.History),
		Config: &genai.GenerateContentConfig{
			SystemInstruction:  genai.NewContentFromText(req.SystemInstructions, genai.RoleUser),
			MaxOutputTokens:    int32(req.MaxTokens),
			ResponseMIMEType:   "application/json",
			ResponseJsonSchema: schema,
		},
	}

	// The call runs in its own goroutine so a model that ignores ctx cannot hold the turn.
	done := make(chan completion, 1)
	go func() {
		text, err := c.collect(ctx, llmReq)
		done <- completion{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", contextError(ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", classifyError(ctx, res.err)
		}
		if strings.TrimSpace(res.text) == "" {
			return "", &RemoteError{Status: http.StatusBadGateway, Message: "empty response"}
		}
		return res.text, nil
	}
}

func (c *LLMCompleter) collect(ctx context.Context, req *model.LLMRequest) (string, error) {
	var final, partial strings.Builder
	for resp, err := range c.model.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		if resp == nil {
			continue
		}
		text := utils.ExtractContentText(resp.Content)
		if resp.Partial {
			partial.WriteString(text)
			continue
		}
		final.WriteString(text)
	}
	if final.Len() == 0 {
		return partial.String(), nil
	}
	return final.String(), nil
}

func historyContents(history []ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}

func contextError(err error) *RemoteError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &RemoteError{Status: http.StatusGatewayTimeout, Message: "remote call timed out", Err: err}
	}
	return &RemoteError{Status: StatusClientClosed, Message: "remote call cancelled", Err: err}
}

func classifyError(ctx context.Context, err error) *RemoteError {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return contextError(ctxErr)
		}
		return contextError(err)
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return &RemoteError{Status: openaiErr.StatusCode, Message: openaiErr.Message, Err: err}
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return &RemoteError{Status: genaiErr.Code, Message: genaiErr.Message, Err: err}
	}
	return &RemoteError{Status: http.StatusBadGateway, Message: err.Error(), Err: err}
}
