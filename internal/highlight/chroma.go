package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

// DefaultStyle is the chroma style used for the "default" style name.
const DefaultStyle = "pygments"

// ResolveStyle maps a configured style name onto a registered chroma style.
// Empty and "default" resolve to DefaultStyle.
func ResolveStyle(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "default" {
		name = DefaultStyle
	}
	_, ok := styles.Registry[name]
	return name, ok
}

// Chroma highlights code with chroma lexers and the HTML formatter.
type Chroma struct {
	style       *chroma.Style
	lineNumbers bool
	tabWidth    int
}

// Option configures the highlighter.
type Option func(*Chroma)

// WithLineNumbers toggles line numbers in the output.
func WithLineNumbers(enabled bool) Option {
	return func(c *Chroma) {
		c.lineNumbers = enabled
	}
}

// WithTabWidth sets the tab expansion width.
func WithTabWidth(width int) Option {
	return func(c *Chroma) {
		if width > 0 {
			c.tabWidth = width
		}
	}
}

// New returns a highlighter using the named style.
func New(style string, opts ...Option) (*Chroma, error) {
	name, ok := ResolveStyle(style)
	if !ok {
		return nil, gisterrors.Render(nil, fmt.Sprintf("unknown highlight style %q", style))
	}
	c := &Chroma{
		style:    styles.Get(name),
		tabWidth: 8,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ interfaces.Highlighter = (*Chroma)(nil)

// Highlight renders code as HTML. language is matched against lexer names,
// aliases and file extensions; no match is a render error.
func (c *Chroma) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(strings.TrimSpace(language))
	if lexer == nil {
		return "", gisterrors.Render(nil, fmt.Sprintf("unsupported filetype %q", language))
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", gisterrors.Render(err, fmt.Sprintf("tokenise %s source", language))
	}

	formatter := html.New(
		html.WithLineNumbers(c.lineNumbers),
		html.TabWidth(c.tabWidth),
	)
	var out strings.Builder
	if err := formatter.Format(&out, c.style, iterator); err != nil {
		return "", gisterrors.Render(err, fmt.Sprintf("format %s source", language))
	}
	return out.String(), nil
}
