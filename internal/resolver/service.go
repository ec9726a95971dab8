package resolver

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-gist/internal/endpoints"
	"github.com/goliatone/go-gist/internal/logging"
	"github.com/goliatone/go-gist/internal/render"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

// Service finds gist markers in article content and replaces each one with
// the rendered embed. Markers are resolved one at a time in scan order; the
// first error aborts the pass.
type Service struct {
	parser       interfaces.MarkerParser
	fetcher      interfaces.Fetcher
	cache        interfaces.CacheStore
	renderer     interfaces.CodeRenderer
	templater    interfaces.Templater
	endpoints    endpoints.Endpoints
	cacheEnabled bool
	logger       interfaces.Logger
	metrics      interfaces.ResolverMetrics
	runID        func() string
}

// ServiceOption customises the service.
type ServiceOption func(*Service)

// WithParser overrides the marker parser.
func WithParser(parser interfaces.MarkerParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithCache attaches the cache store consulted before fetching.
func WithCache(store interfaces.CacheStore) ServiceOption {
	return func(s *Service) {
		s.cache = store
	}
}

// WithCacheEnabled gates both cache lookups and write-backs.
func WithCacheEnabled(enabled bool) ServiceOption {
	return func(s *Service) {
		s.cacheEnabled = enabled
	}
}

// WithEndpoints overrides the URL builder used for script_url.
func WithEndpoints(e endpoints.Endpoints) ServiceOption {
	return func(s *Service) {
		s.endpoints = e
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder.
func WithMetrics(metrics interfaces.ResolverMetrics) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithRunIDGenerator overrides how pass identifiers are generated.
func WithRunIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.runID = fn
		}
	}
}

// NewService constructs a resolver. Caching is enabled by default but only
// takes effect once a store is supplied through WithCache.
func NewService(fetcher interfaces.Fetcher, renderer interfaces.CodeRenderer, templater interfaces.Templater, opts ...ServiceOption) *Service {
	s := &Service{
		parser:       NewParser(),
		fetcher:      fetcher,
		renderer:     renderer,
		templater:    templater,
		endpoints:    endpoints.Default(),
		cacheEnabled: true,
		logger:       logging.NoOp(),
		metrics:      NoOpMetrics(),
		runID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.GistResolver = (*Service)(nil)

// ReplaceTags rewrites the content of each article in order. Content is
// updated after every substitution, so an error leaves earlier replacements
// in place.
func (s *Service) ReplaceTags(ctx context.Context, articles []interfaces.Article, hostContext map[string]any) error {
	if err := s.ready(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.ContextWithFields(ctx, map[string]any{"run_id": s.runID()})
	logger := logging.WithFields(s.baseLogger(ctx), map[string]any{
		"operation": "gist.replace_tags",
	})

	start := time.Now()
	for idx, article := range articles {
		if article == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.replaceArticle(ctx, article, hostContext); err != nil {
			logging.WithFields(logger, map[string]any{
				"article": idx,
				"error":   err,
			}).Error("gist.resolver.pass_failed")
			return err
		}
	}

	logging.WithFields(logger, map[string]any{
		"articles":    len(articles),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("gist.resolver.pass_completed")
	return nil
}

// Resolve rewrites a single piece of content and returns the result.
func (s *Service) Resolve(ctx context.Context, content string, hostContext map[string]any) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	doc := &textArticle{content: content}
	if err := s.replaceArticle(ctx, doc, hostContext); err != nil {
		return "", err
	}
	return doc.content, nil
}

func (s *Service) replaceArticle(ctx context.Context, article interfaces.Article, hostContext map[string]any) error {
	markers := s.parser.Parse(article.Content())
	for _, marker := range markers {
		html, err := s.resolveMarker(ctx, marker, hostContext)
		if err != nil {
			return err
		}
		article.SetContent(strings.Replace(article.Content(), marker.Raw, html, 1))
	}
	return nil
}

func (s *Service) resolveMarker(ctx context.Context, marker interfaces.Marker, hostContext map[string]any) (string, error) {
	logger := logging.WithMarker(s.baseLogger(ctx), marker)
	logger.Info("gist.resolver.marker_found")

	start := time.Now()
	html, err := s.render(ctx, logger, marker, hostContext)
	s.metrics.ObserveResolveDuration(marker.ID, time.Since(start))
	if err != nil {
		s.metrics.IncrementResolveError(marker.ID)
		logging.WithFields(logger, map[string]any{"error": err}).Error("gist.resolver.resolve_failed")
		return "", err
	}
	return html, nil
}

func (s *Service) render(ctx context.Context, logger interfaces.Logger, marker interfaces.Marker, hostContext map[string]any) (string, error) {
	body, err := s.body(ctx, logger, marker.Ref)
	if err != nil {
		return "", err
	}

	code, err := s.renderer.Render(body, marker.FileType)
	if err != nil {
		return "", err
	}

	bindings := maps.Clone(hostContext)
	if bindings == nil {
		bindings = make(map[string]any, 2)
	}
	bindings[render.ScriptURLKey] = s.endpoints.Script(marker.Ref)
	bindings[render.CodeKey] = code

	return s.templater.Render(bindings)
}

// body returns the raw gist content, consulting the cache first when enabled
// and writing fetched content back under the same flag.
func (s *Service) body(ctx context.Context, logger interfaces.Logger, ref interfaces.Ref) (string, error) {
	useCache := s.cacheEnabled && s.cache != nil

	if useCache {
		cached, found, err := s.cache.Get(ctx, ref)
		if err != nil {
			return "", err
		}
		if found && cached != "" {
			s.metrics.IncrementCacheHit(ref.ID)
			logger.Info("gist.resolver.cache_hit")
			return cached, nil
		}
		s.metrics.IncrementCacheMiss(ref.ID)
		logger.Info("gist.resolver.cache_miss")
	}

	logger.Info("gist.resolver.fetching")
	s.metrics.IncrementFetch(ref.ID)
	body, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}

	if useCache {
		logger.Info("gist.resolver.cache_write")
		if err := s.cache.Set(ctx, ref, body); err != nil {
			return "", err
		}
	}
	return body, nil
}

func (s *Service) ready() error {
	if s.fetcher == nil || s.renderer == nil || s.templater == nil || s.parser == nil {
		return fmt.Errorf("gist: resolver not initialised")
	}
	return nil
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}

type textArticle struct {
	content string
}

func (t *textArticle) Content() string { return t.content }

func (t *textArticle) SetContent(content string) { t.content = content }
