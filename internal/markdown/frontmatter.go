package markdown

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"maps"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-gist/internal/identity"
)

// FrontMatter holds the metadata block of an article.
type FrontMatter struct {
	Title    string
	Slug     string
	Summary  string
	Template string
	Tags     []string
	Author   string
	Date     time.Time
	Draft    bool
	Custom   map[string]any
	// Raw merges the known keys with Custom; it is handed to the embed
	// template as host context.
	Raw map[string]any
}

// ParseFrontMatter extracts metadata and the Markdown body from source. A
// document without a front matter block yields empty metadata and the
// whole source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildArticle assembles an Article from a slash-separated path relative to
// the content root. HTML is left empty so callers can render lazily.
func BuildArticle(filePath string, source []byte, modified time.Time) (*Article, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(source)
	return &Article{
		ID:           identity.ArticleUUID(filePath),
		Path:         filePath,
		Slug:         articleSlug(filePath, fm.Slug),
		FrontMatter:  fm,
		Body:         body,
		Checksum:     sum[:],
		LastModified: modified,
	}, nil
}

// articleSlug prefers the front matter slug and falls back to the file
// name. Nested paths keep their directories so output names stay unique.
func articleSlug(filePath, declared string) string {
	if normalized, err := slug.Normalize(declared); err == nil && normalized != "" {
		return normalized
	}

	dir, file := path.Split(filePath)
	name := strings.TrimSuffix(file, path.Ext(file))
	if normalized, err := slug.Normalize(name); err == nil && normalized != "" {
		name = normalized
	}
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}

type frontMatterEnvelope struct {
	Title    string         `yaml:"title" toml:"title"`
	Slug     string         `yaml:"slug" toml:"slug"`
	Summary  string         `yaml:"summary" toml:"summary"`
	Template string         `yaml:"template" toml:"template"`
	Tags     []string       `yaml:"tags" toml:"tags"`
	Author   string         `yaml:"author" toml:"author"`
	Date     time.Time      `yaml:"date" toml:"date"`
	Draft    bool           `yaml:"draft" toml:"draft"`
	Custom   map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	custom := maps.Clone(env.Custom)
	if custom == nil {
		custom = map[string]any{}
	}

	raw := maps.Clone(custom)
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if env.Template != "" {
		raw["template"] = env.Template
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	raw["draft"] = env.Draft

	return FrontMatter{
		Title:    env.Title,
		Slug:     env.Slug,
		Summary:  env.Summary,
		Template: env.Template,
		Tags:     append([]string(nil), env.Tags...),
		Author:   env.Author,
		Date:     env.Date,
		Draft:    env.Draft,
		Custom:   custom,
		Raw:      raw,
	}
}
