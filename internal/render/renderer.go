package render

import (
	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

// Renderer turns raw gist bodies into embeddable HTML.
type Renderer struct {
	highlighter interfaces.Highlighter
}

// NewRenderer returns a renderer delegating hinted bodies to highlighter.
func NewRenderer(highlighter interfaces.Highlighter) *Renderer {
	return &Renderer{highlighter: highlighter}
}

var _ interfaces.CodeRenderer = (*Renderer)(nil)

// Render highlights raw when language is set. Otherwise raw is wrapped in
// <pre><code> verbatim, without HTML escaping.
func (r *Renderer) Render(raw string, language *string) (string, error) {
	if language == nil {
		return "<pre><code>" + raw + "</code></pre>", nil
	}
	if r.highlighter == nil {
		return "", gisterrors.Render(nil, "no highlighter configured for filetype "+*language)
	}
	return r.highlighter.Highlight(raw, *language)
}
