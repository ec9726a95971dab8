package di

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-gist/internal/cache"
	"github.com/goliatone/go-gist/internal/endpoints"
	"github.com/goliatone/go-gist/internal/fetch"
	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/internal/highlight"
	"github.com/goliatone/go-gist/internal/logging"
	"github.com/goliatone/go-gist/internal/logging/console"
	"github.com/goliatone/go-gist/internal/logging/gologger"
	"github.com/goliatone/go-gist/internal/markdown"
	"github.com/goliatone/go-gist/internal/render"
	"github.com/goliatone/go-gist/internal/resolver"
	"github.com/goliatone/go-gist/internal/runtimeconfig"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

// Container wires resolver dependencies from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	httpClient *http.Client
	bunDB      *bun.DB
	ownsDB     bool

	cacheStore interfaces.CacheStore
	fileStore  *cache.FileStore
	bunStore   *cache.BunStore

	fetcher     interfaces.Fetcher
	highlighter interfaces.Highlighter
	templater   interfaces.Templater
	metrics     interfaces.ResolverMetrics
	endpoints   endpoints.Endpoints

	resolver *resolver.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithFetcher overrides the HTTP fetcher.
func WithFetcher(fetcher interfaces.Fetcher) Option {
	return func(c *Container) {
		c.fetcher = fetcher
	}
}

// WithCacheStore overrides the store selected by Cache.Driver.
func WithCacheStore(store interfaces.CacheStore) Option {
	return func(c *Container) {
		c.cacheStore = store
	}
}

// WithHighlighter overrides the chroma highlighter.
func WithHighlighter(highlighter interfaces.Highlighter) Option {
	return func(c *Container) {
		c.highlighter = highlighter
	}
}

// WithTemplater overrides the embed templater.
func WithTemplater(templater interfaces.Templater) Option {
	return func(c *Container) {
		c.templater = templater
	}
}

// WithMetrics attaches a resolver metrics recorder.
func WithMetrics(metrics interfaces.ResolverMetrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// WithBunDB supplies the database used by the sqlite cache driver. The
// caller keeps ownership and must close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithHTTPClient overrides the client used by the default fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// NewContainer validates cfg and builds every collaborator not supplied
// through options.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		endpoints: endpoints.Endpoints{
			RawBaseURL:    cfg.Remote.RawBaseURL,
			ScriptBaseURL: cfg.Remote.ScriptBaseURL,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLoggerProvider,
		c.configureCache,
		c.configureFetcher,
		c.configureRenderer,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	c.configureResolver()

	logging.WithFields(c.logger, map[string]any{
		"cache_enabled": cfg.Cache.Enabled,
		"cache_driver":  cfg.Cache.NormalizedDriver(),
		"style":         cfg.Highlight.Style,
	}).Debug("gist.container.configured")

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			level, _ := console.ParseLevel(c.Config.Logging.Level)
			c.loggerProvider = console.NewProvider(console.Options{
				Writer:   os.Stderr,
				MinLevel: &level,
			})
		}
	}
	c.logger = logging.RootLogger(c.loggerProvider)
	return nil
}

func (c *Container) configureCache() error {
	if c.cacheStore != nil {
		return nil
	}
	logger := logging.CacheLogger(c.loggerProvider)

	if c.Config.Cache.NormalizedDriver() == runtimeconfig.DriverSQLite {
		if c.bunDB == nil {
			if err := c.ensureCacheDir(); err != nil {
				return err
			}
			db, err := cache.OpenSQLite(c.Config.Cache.SQLiteDSN())
			if err != nil {
				return err
			}
			c.bunDB = db
			c.ownsDB = true
		}
		c.bunStore = cache.NewBunStore(c.bunDB, cache.WithLogger(logger))
		c.cacheStore = c.bunStore
		return nil
	}

	c.fileStore = cache.NewFileStore(c.Config.Cache.Location, cache.WithLogger(logger))
	c.cacheStore = c.fileStore
	return nil
}

func (c *Container) configureFetcher() error {
	if c.fetcher != nil {
		return nil
	}
	client := c.httpClient
	if client == nil {
		client = cleanhttp.DefaultClient()
		if seconds := c.Config.Remote.TimeoutSeconds; seconds > 0 {
			client.Timeout = time.Duration(seconds) * time.Second
		}
	}
	c.fetcher = fetch.NewHTTPFetcher(
		fetch.WithClient(client),
		fetch.WithEndpoints(c.endpoints),
		fetch.WithUserAgent(c.Config.Remote.UserAgent),
		fetch.WithLogger(logging.FetchLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) configureRenderer() error {
	if c.highlighter == nil {
		highlighter, err := highlight.New(
			c.Config.Highlight.Style,
			highlight.WithLineNumbers(c.Config.Highlight.LineNumbers),
			highlight.WithTabWidth(c.Config.Highlight.TabWidth),
		)
		if err != nil {
			return err
		}
		c.highlighter = highlighter
	}
	if c.templater == nil {
		templater, err := render.NewTextTemplater(c.Config.Embed.Template)
		if err != nil {
			return err
		}
		c.templater = templater
	}
	return nil
}

func (c *Container) configureResolver() {
	c.resolver = resolver.NewService(
		c.fetcher,
		render.NewRenderer(c.highlighter),
		c.templater,
		resolver.WithCache(c.cacheStore),
		resolver.WithCacheEnabled(c.Config.Cache.Enabled),
		resolver.WithEndpoints(c.endpoints),
		resolver.WithLogger(logging.ResolverLogger(c.loggerProvider)),
		resolver.WithMetrics(c.metrics),
	)
}

// Setup prepares cache storage: the cache directory is created recursively
// and the sqlite schema is applied. The directory is created even when
// caching is disabled; only a blank location skips it.
func (c *Container) Setup(ctx context.Context) error {
	if c.fileStore != nil && strings.TrimSpace(c.fileStore.BaseDir()) != "" {
		if err := c.fileStore.EnsureDir(); err != nil {
			return err
		}
	}
	if c.bunStore != nil {
		if err := c.bunStore.CreateSchema(ctx); err != nil {
			return err
		}
	}
	logging.WithFields(c.logger, map[string]any{
		"location": c.Config.Cache.Location,
		"enabled":  c.Config.Cache.Enabled,
	}).Info("gist.cache.ready")
	return nil
}

// ensureCacheDir creates the cache location when the sqlite database lives
// inside it.
func (c *Container) ensureCacheDir() error {
	if strings.TrimSpace(c.Config.Cache.DSN) != "" || strings.TrimSpace(c.Config.Cache.Location) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Config.Cache.Location, 0o755); err != nil {
		return gisterrors.Storage(err, "create cache directory "+c.Config.Cache.Location)
	}
	return nil
}

// MarkdownService builds the article loader rooted at contentDir, falling
// back to Markdown.ContentDir.
func (c *Container) MarkdownService(contentDir string) (*markdown.Service, error) {
	if strings.TrimSpace(contentDir) == "" {
		contentDir = c.Config.Markdown.ContentDir
	}
	if strings.TrimSpace(contentDir) == "" {
		return nil, errors.New("gist: markdown content directory is required")
	}
	return markdown.NewService(markdown.Config{
		BasePath:  contentDir,
		Pattern:   c.Config.Markdown.Pattern,
		Recursive: c.Config.Markdown.Recursive,
		Parser: markdown.ParseOptions{
			Extensions:     c.Config.Markdown.Extensions,
			HardWraps:      c.Config.Markdown.HardWraps,
			HighlightStyle: c.Config.Highlight.Style,
			LineNumbers:    c.Config.Highlight.LineNumbers,
		},
	}, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))
}

// Resolver returns the configured gist resolver.
func (c *Container) Resolver() *resolver.Service {
	return c.resolver
}

// CacheStore returns the active cache store.
func (c *Container) CacheStore() interfaces.CacheStore {
	return c.cacheStore
}

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the root module logger.
func (c *Container) Logger() interfaces.Logger {
	if c.logger == nil {
		return logging.NoOp()
	}
	return c.logger
}

// Close releases the sqlite database when the container opened it.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		c.ownsDB = false
		return err
	}
	return nil
}
