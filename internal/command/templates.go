package command

import (
	"bytes"
	"log/slog"
	"strings"
	"text/template"
)

const (
	tplHelp       = "help"
	tplState      = "state"
	tplPractices  = "practices"
	tplPhaseUsage = "phaseUsage"
	tplFinished   = "finished"
	tplUnknown    = "unknown"
	tplError      = "error"
)

var templatesText = `
{{define "help"}}Commands:
  /state          where we are and what has come up so far
  /practices      list the grounding practices
  /restart        start this protocol again (what you shared is kept)
  /another-part   work with another part (Six F's)
  /phase <name>   jump to a phase
  /finish         close the session
  /quit           leave{{end}}
{{define "state"}}Protocol: {{.Protocol}}
Phase: {{.Phase}}{{with .PhaseTitle}} ({{.}}){{end}}
Nervous system: {{.Trend}}
Turns: {{.Turns}}
{{- with .Parts}}
Parts met: {{join . ", "}}{{end}}
{{- with .Themes}}
Themes: {{join . ", "}}{{end}}
{{- with .Completed}}
Practices done: {{join . ", "}}{{end}}
{{- if .Finished}}
This session is finished.{{end}}{{end}}
{{define "practices"}}{{range .Practices}}- {{.Title}} ({{.DurationMinutes}} min): {{.Description}}
{{end}}{{end}}
{{define "phaseUsage"}}Usage: /phase <name>{{with .Steps}}
Phases:{{range .}}
  {{.Phase}}  {{.Title}}{{end}}{{end}}{{end}}
{{define "finished"}}Thank you for the care you brought to this. The session is closed; take a moment before moving on.
{{template "state" .}}{{end}}
{{define "unknown"}}Unknown command /{{.Name}}. Type /help for the list.{{end}}
{{define "error"}}{{.Message}}{{end}}
`

var templates = template.Must(template.New("command").Funcs(template.FuncMap{"join": strings.Join}).Parse(templatesText))

func render(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to execute template", "template", name, "error", err.Error())
		return "Something went wrong showing that, please try again."
	}
	return buf.String()
}
