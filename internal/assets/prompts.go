// Package assets provides the embedded prompt templates.
//
// Prompts are stored as text files under prompts/ and embedded at compile
// time so wording changes never touch Go code.
package assets

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompts/enhance.txt
var enhanceTemplate string

// template.Must panics on a malformed template, so a broken prompt fails at
// startup rather than on the first request.
var enhancePromptTmpl = template.Must(template.New("enhance").Parse(enhanceTemplate))

// EnhancePromptData holds the options injected into the enhancement prompt.
type EnhancePromptData struct {
	PreserveFaces bool
}

// RenderEnhancePrompt renders the image enhancement instruction.
func RenderEnhancePrompt(data EnhancePromptData) string {
	var buf bytes.Buffer
	// Execution cannot fail for this template and data type; whatever was
	// rendered is returned regardless.
	_ = enhancePromptTmpl.Execute(&buf, data)
	return strings.TrimSpace(buf.String())
}
