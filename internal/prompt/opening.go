package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/easeaico/project-integrate/internal/phase"
)

const openingTemplateText = `Welcome. We'll explore this together using {{.Title}}, one step at a time, and you can pause whenever you need to.
{{.Prompt}}`

var openingTemplate = template.Must(template.New("opening").Parse(openingTemplateText))

// BuildOpening renders the first assistant message of a protocol run.
func BuildOpening(def *phase.Definition) (string, error) {
	if def == nil {
		return "", fmt.Errorf("protocol definition is required")
	}

	data := struct {
		Title  string
		Prompt string
	}{
		Title:  def.Title,
		Prompt: def.Prompt(def.Start()),
	}

	var buf bytes.Buffer
	if err := openingTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build opening: %w", err)
	}
	return buf.String(), nil
}
