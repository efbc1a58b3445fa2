package emotion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/easeaico/project-integrate/internal/types"
	"github.com/easeaico/project-integrate/internal/utils"
)

const analyzerInstruction = `You classify the autonomic nervous-system state expressed in a message.
Return exactly one label and nothing else: ventral, sympathetic, dorsal, or unknown.
ventral = safe, calm, connected. sympathetic = fight or flight, anxious, activated.
dorsal = shut down, numb, collapsed. unknown = not enough signal.`

// ModelClassifier asks a language model for the state label and keeps the keyword
// classifier as the fallback. Intensity always comes from keyword counts.
type ModelClassifier struct {
	model    model.LLM
	fallback *KeywordClassifier
	timeout  time.Duration
}

// NewModelClassifier returns a ModelClassifier.
func NewModelClassifier(m model.LLM, fallback *KeywordClassifier, timeout time.Duration) *ModelClassifier {
	if fallback == nil {
		fallback = NewKeywordClassifier()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ModelClassifier{model: m, fallback: fallback, timeout: timeout}
}

// Classify implements TextClassifier.
func (a *ModelClassifier) Classify(ctx context.Context, text string) types.StateAssessment {
	keyword := a.fallback.Assess(text)
	if strings.TrimSpace(text) == "" {
		return keyword
	}

	label, err := a.label(ctx, text)
	if err != nil {
		slog.Warn("model classifier unavailable, using keyword assessment", "error", err.Error())
		return keyword
	}
	if label == keyword.State || label == types.StateUnknown {
		return keyword
	}

	count := a.fallback.Counts(text)[label]
	assessment := assessmentFor(label, count)
	// The model disagreed with the vocabulary, so confidence cannot exceed one half.
	assessment.Confidence = min(assessment.Confidence, 0.5)
	return assessment
}

func (a *ModelClassifier) label(ctx context.Context, text string) (types.NervousState, error) {
	if a == nil || a.model == nil {
		return types.StateUnknown, fmt.Errorf("model classifier not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText(text, genai.RoleUser),
		},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(analyzerInstruction, genai.RoleUser),
			MaxOutputTokens:   8,
		},
	}

	seq := a.model.GenerateContent(ctx, req, false)
	var resp *model.LLMResponse
	var err error
	seq(func(r *model.LLMResponse, e error) bool {
		resp = r
		err = e
		return false
	})
	if err != nil {
		return types.StateUnknown, err
	}
	if resp == nil {
		return types.StateUnknown, fmt.Errorf("empty classifier response")
	}

	switch strings.ToLower(strings.TrimSpace(utils.ExtractContentText(resp.Content))) {
	case "ventral":
		return types.StateVentral, nil
	case "sympathetic":
		return types.StateSympathetic, nil
	case "dorsal":
		return types.StateDorsal, nil
	case "unknown":
		return types.StateUnknown, nil
	default:
		return types.StateUnknown, fmt.Errorf("unexpected classifier label")
	}
}
