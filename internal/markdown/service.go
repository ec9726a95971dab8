package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-gist/internal/logging"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    ParseOptions
}

// Service loads articles from disk and renders their bodies to HTML.
type Service struct {
	cfg    Config
	parser *GoldmarkParser
	loader *Loader
	logger interfaces.Logger
}

// ServiceOption customises the service.
type ServiceOption func(*Service)

// WithLogger attaches a logger used for load diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS replaces the filesystem rooted at BasePath.
func WithFS(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		if filesystem != nil {
			s.loader = NewLoader(filesystem, s.loaderConfig())
		}
	}
}

// NewService constructs a Markdown service over BasePath.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		cfg:    cfg,
		parser: NewGoldmarkParser(cfg.Parser),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		filesystem, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		s.loader = NewLoader(filesystem, s.loaderConfig())
	}
	return s, nil
}

// Load reads and renders a single article relative to the base path.
func (s *Service) Load(ctx context.Context, path string) (*Article, error) {
	article, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	if err := s.RenderArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// LoadDirectory reads and renders every matching article under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*Article, error) {
	articles, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir))
	if err != nil {
		return nil, err
	}
	for _, article := range articles {
		if err := s.RenderArticle(ctx, article); err != nil {
			return nil, err
		}
	}
	logging.WithFields(s.logger, map[string]any{
		"dir":      dir,
		"articles": len(articles),
	}).Debug("gist.markdown.directory_loaded")
	return articles, nil
}

// RenderArticle renders the article body into its HTML content.
func (s *Service) RenderArticle(ctx context.Context, article *Article) error {
	if article == nil {
		return errors.New("markdown service: article is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := s.parser.Parse(article.Body)
	if err != nil {
		return fmt.Errorf("markdown render article %s: %w", article.Path, err)
	}
	article.HTML = string(html)
	return nil
}

func (s *Service) loaderConfig() LoaderConfig {
	return LoaderConfig{
		BasePath:  s.cfg.BasePath,
		Pattern:   s.cfg.Pattern,
		Recursive: s.cfg.Recursive,
	}
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
