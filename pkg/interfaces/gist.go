package interfaces

import (
	"context"
	"time"
)

// Ref addresses a gist, optionally narrowed to a single file. A nil File
// means the whole gist; it is distinct from a pointer to an empty string.
type Ref struct {
	ID   string
	File *string
}

// FileName returns the file name and whether one was supplied.
func (r Ref) FileName() (string, bool) {
	if r.File == nil {
		return "", false
	}
	return *r.File, true
}

// Marker is a single gist tag located in article content.
type Marker struct {
	// Raw is the exact text matched in the content.
	Raw string
	Ref
	// FileType is the optional highlighting hint.
	FileType *string
}

// Language returns the highlighting hint and whether one was supplied.
func (m Marker) Language() (string, bool) {
	if m.FileType == nil {
		return "", false
	}
	return *m.FileType, true
}

// Article is a host-owned document whose content is rewritten in place.
type Article interface {
	Content() string
	SetContent(content string)
}

// MarkerParser locates gist markers in content.
type MarkerParser interface {
	Parse(content string) []Marker
}

// CacheStore persists raw gist bodies keyed by Ref.
type CacheStore interface {
	// Get reports found=false with a nil error when nothing is stored.
	Get(ctx context.Context, ref Ref) (body string, found bool, err error)
	Set(ctx context.Context, ref Ref, body string) error
}

// Fetcher retrieves raw gist content from the remote source.
type Fetcher interface {
	Fetch(ctx context.Context, ref Ref) (string, error)
}

// Highlighter turns source code into highlighted HTML for a language.
type Highlighter interface {
	Highlight(code, language string) (string, error)
}

// CodeRenderer converts a raw gist body into the HTML placed in the embed.
type CodeRenderer interface {
	Render(raw string, language *string) (string, error)
}

// Templater renders the embed template against a set of bindings.
type Templater interface {
	Render(bindings map[string]any) (string, error)
}

// ResolverMetrics captures resolver telemetry.
type ResolverMetrics interface {
	ObserveResolveDuration(id string, duration time.Duration)
	IncrementCacheHit(id string)
	IncrementCacheMiss(id string)
	IncrementFetch(id string)
	IncrementResolveError(id string)
}

// GistResolver replaces gist markers with rendered embeds.
type GistResolver interface {
	// ReplaceTags rewrites every article in order, stopping at the first error.
	ReplaceTags(ctx context.Context, articles []Article, hostContext map[string]any) error
	// Resolve rewrites a single piece of content.
	Resolve(ctx context.Context, content string, hostContext map[string]any) (string, error)
}
