// internal/render/render.go
package render

import (
	"bytes"
	"regexp"
	"text/template"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
)

// Stored templates use bare {{name}} placeholders. Go's engine expects
// {{.name}}, so bare identifiers are rewritten before parsing. Template
// keywords are left alone so a control action can never be turned into a
// field lookup by accident.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

var keywords = map[string]bool{
	"if": true, "else": true, "end": true, "range": true, "with": true,
	"template": true, "block": true, "define": true, "break": true,
	"continue": true, "nil": true,
}

// Render substitutes the named variables into text. Rendering is strict: a
// placeholder referencing a variable that is not in vars fails with a
// RenderError rather than producing partial output. Empty input passes
// through unchanged. The function is pure; identical inputs yield identical
// output.
func Render(text string, vars map[string]any) (string, error) {
	if text == "" {
		return "", nil
	}

	src := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if keywords[name] {
			return m
		}
		return "{{." + name + "}}"
	})

	tmpl, err := template.New("message").Option("missingkey=error").Parse(src)
	if err != nil {
		return "", appErrors.NewRender(err)
	}

	if vars == nil {
		vars = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", appErrors.NewRender(err)
	}
	return buf.String(), nil
}

// RenderOptional renders text when present; nil or empty input passes
// through as nil.
func RenderOptional(text *string, vars map[string]any) (*string, error) {
	if text == nil || *text == "" {
		return nil, nil
	}
	out, err := Render(*text, vars)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
