package markdown

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

// Article is a rendered Markdown document. Content exposes the rendered HTML
// so the resolver can replace gist markers without touching the source.
type Article struct {
	ID           uuid.UUID
	Path         string
	Slug         string
	FrontMatter  FrontMatter
	Body         []byte
	HTML         string
	Checksum     []byte
	LastModified time.Time
}

var _ interfaces.Article = (*Article)(nil)

// Content returns the rendered HTML. A nil article has no content.
func (a *Article) Content() string {
	if a == nil {
		return ""
	}
	return a.HTML
}

// SetContent replaces the rendered HTML. It is a no-op on a nil article.
func (a *Article) SetContent(content string) {
	if a == nil {
		return
	}
	a.HTML = content
}

// Title returns the front matter title, falling back to the slug.
func (a *Article) Title() string {
	if a == nil {
		return ""
	}
	if a.FrontMatter.Title != "" {
		return a.FrontMatter.Title
	}
	return a.Slug
}
