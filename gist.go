// Package gist replaces gist markers in rendered articles with embed HTML.
//
// A marker is a paragraph of the form <p>[gist:id=ID,file=NAME,filetype=LANG]</p>
// where file and filetype are optional. Each marker is replaced by a
// script embed plus a <noscript> fallback holding the gist body, which is
// fetched from GitHub, cached on disk (or in sqlite), and optionally
// highlighted.
package gist

import (
	"context"
	"net/http"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-gist/internal/di"
	"github.com/goliatone/go-gist/internal/markdown"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

type (
	Ref            = interfaces.Ref
	Marker         = interfaces.Marker
	Article        = interfaces.Article
	Resolver       = interfaces.GistResolver
	CacheStore     = interfaces.CacheStore
	Fetcher        = interfaces.Fetcher
	Highlighter    = interfaces.Highlighter
	Templater      = interfaces.Templater
	Metrics        = interfaces.ResolverMetrics
	Logger         = interfaces.Logger
	LoggerProvider = interfaces.LoggerProvider

	// MarkdownArticle is an article loaded from a Markdown file.
	MarkdownArticle = markdown.Article

	// Option overrides a collaborator built from Config.
	Option = di.Option
)

func WithFetcher(fetcher Fetcher) Option { return di.WithFetcher(fetcher) }
func WithCacheStore(store CacheStore) Option { return di.WithCacheStore(store) }
func WithHighlighter(highlighter Highlighter) Option { return di.WithHighlighter(highlighter) }
func WithTemplater(templater Templater) Option { return di.WithTemplater(templater) }
func WithMetrics(metrics Metrics) Option { return di.WithMetrics(metrics) }
func WithLoggerProvider(provider LoggerProvider) Option { return di.WithLoggerProvider(provider) }
func WithBunDB(db *bun.DB) Option { return di.WithBunDB(db) }
func WithHTTPClient(client *http.Client) Option { return di.WithHTTPClient(client) }

// Module is the top level gist embedding façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Setup creates the cache directory (or sqlite schema). Call it once
// before the first pass.
func (m *Module) Setup(ctx context.Context) error {
	return m.container.Setup(ctx)
}

// ReplaceTags rewrites every article in order and stops at the first error.
// Replacements already applied to earlier articles are kept.
func (m *Module) ReplaceTags(ctx context.Context, articles []Article, hostContext map[string]any) error {
	return m.container.Resolver().ReplaceTags(ctx, articles, hostContext)
}

// Resolve rewrites a single piece of content.
func (m *Module) Resolve(ctx context.Context, content string, hostContext map[string]any) (string, error) {
	return m.container.Resolver().Resolve(ctx, content, hostContext)
}

// Resolver exposes the resolver for hosts that only need the contract.
func (m *Module) Resolver() Resolver {
	return m.container.Resolver()
}

// LoadArticles renders every Markdown file under contentDir. An empty
// contentDir falls back to Markdown.ContentDir.
func (m *Module) LoadArticles(ctx context.Context, contentDir string) ([]*MarkdownArticle, error) {
	svc, err := m.container.MarkdownService(contentDir)
	if err != nil {
		return nil, err
	}
	return svc.LoadDirectory(ctx, ".")
}

// Logger returns the module's root logger.
func (m *Module) Logger() Logger {
	return m.container.Logger()
}

// Config returns the configuration the module was built from.
func (m *Module) Config() Config {
	return m.container.Config
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
