package render

import (
	"strings"
	"text/template"

	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

const (
	// ScriptURLKey is the binding holding the embed script URL.
	ScriptURLKey = "script_url"
	// CodeKey is the binding holding the rendered code.
	CodeKey = "code"
)

// DefaultEmbedTemplate wraps the script tag and a noscript fallback carrying
// the rendered code.
const DefaultEmbedTemplate = `<div class="gist">
    <script src='{{.script_url}}'></script>
    <noscript>
        {{.code}}
    </noscript>
</div>`

// TextTemplater renders the embed with text/template, so bindings are
// inserted without escaping.
type TextTemplater struct {
	tmpl *template.Template
}

// NewTextTemplater parses source, falling back to DefaultEmbedTemplate when
// it is blank. Missing bindings fail at render time.
func NewTextTemplater(source string) (*TextTemplater, error) {
	if strings.TrimSpace(source) == "" {
		source = DefaultEmbedTemplate
	}
	tmpl, err := template.New("gist").Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, gisterrors.Render(err, "parse embed template")
	}
	return &TextTemplater{tmpl: tmpl}, nil
}

var _ interfaces.Templater = (*TextTemplater)(nil)

// Render executes the template against bindings.
func (t *TextTemplater) Render(bindings map[string]any) (string, error) {
	var out strings.Builder
	if err := t.tmpl.Execute(&out, bindings); err != nil {
		return "", gisterrors.Render(err, "execute embed template")
	}
	return out.String(), nil
}
