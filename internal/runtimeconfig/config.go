package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-gist/internal/endpoints"
	"github.com/goliatone/go-gist/internal/highlight"
)

// TextCodeConfig tags configuration failures.
const TextCodeConfig = "GIST_CONFIG"

var ErrCacheLocationRequired = errors.New("gist config: cache location is required when the file cache is enabled")
var ErrCacheDriverUnknown = errors.New("gist config: cache driver is invalid")
var ErrRemoteURLInvalid = errors.New("gist config: remote base url is invalid")
var ErrHighlightStyleUnknown = errors.New("gist config: highlight style is unknown")
var ErrHighlightTabWidthInvalid = errors.New("gist config: highlight tab width must be zero or positive")
var ErrMarkdownPatternInvalid = errors.New("gist config: markdown pattern is invalid")
var ErrLoggingProviderUnknown = errors.New("gist config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("gist config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("gist config: logging format is invalid")

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config aggregates the resolver, cache and host-loader settings.
type Config struct {
	Cache     CacheConfig     `toml:"cache" yaml:"cache"`
	Remote    RemoteConfig    `toml:"remote" yaml:"remote"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight"`
	Embed     EmbedConfig     `toml:"embed" yaml:"embed"`
	Markdown  MarkdownConfig  `toml:"markdown" yaml:"markdown"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
}

// CacheConfig controls where raw gist bodies are persisted. Enabled gates
// both lookups and write-backs.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Location string `toml:"location" yaml:"location"`
	Driver   string `toml:"driver" yaml:"driver"`
	DSN      string `toml:"dsn" yaml:"dsn"`
}

// RemoteConfig points the fetcher and the embed script at gist endpoints.
// TimeoutSeconds of zero leaves the HTTP client without a timeout.
type RemoteConfig struct {
	RawBaseURL     string `toml:"raw_base_url" yaml:"raw_base_url"`
	ScriptBaseURL  string `toml:"script_base_url" yaml:"script_base_url"`
	UserAgent      string `toml:"user_agent" yaml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// HighlightConfig configures chroma.
type HighlightConfig struct {
	Style       string `toml:"style" yaml:"style"`
	LineNumbers bool   `toml:"line_numbers" yaml:"line_numbers"`
	TabWidth    int    `toml:"tab_width" yaml:"tab_width"`
}

// EmbedConfig overrides the embed template. Blank uses the built-in one.
type EmbedConfig struct {
	Template string `toml:"template" yaml:"template"`
}

// MarkdownConfig configures the article loader used by the CLI.
type MarkdownConfig struct {
	ContentDir string   `toml:"content_dir" yaml:"content_dir"`
	Pattern    string   `toml:"pattern" yaml:"pattern"`
	Recursive  bool     `toml:"recursive" yaml:"recursive"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	HardWraps  bool     `toml:"hard_wraps" yaml:"hard_wraps"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider" yaml:"provider"`
	Level     string   `toml:"level" yaml:"level"`
	Format    string   `toml:"format" yaml:"format"`
	AddSource bool     `toml:"add_source" yaml:"add_source"`
	Focus     []string `toml:"focus" yaml:"focus"`
}

// DefaultCacheLocation is the cache directory used when none is configured.
func DefaultCacheLocation() string {
	return filepath.Join(os.TempDir(), "gist-cache")
}

// DefaultConfig mirrors the defaults of the host settings: cache on, temp
// cache directory, default style, no line numbers.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Enabled:  true,
			Location: DefaultCacheLocation(),
			Driver:   DriverFile,
		},
		Remote: RemoteConfig{
			RawBaseURL:    endpoints.DefaultRawBaseURL,
			ScriptBaseURL: endpoints.DefaultScriptBaseURL,
			UserAgent:     "go-gist",
		},
		Highlight: HighlightConfig{
			Style:    "default",
			TabWidth: 8,
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
			Extensions: []string{"table", "strikethrough", "tasklist"},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// SQLiteDSN returns the configured DSN or a database file inside the cache
// location.
func (c CacheConfig) SQLiteDSN() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	return "file:" + filepath.Join(c.Location, "gist-cache.db")
}

// NormalizedDriver returns the lower-cased driver, defaulting to file.
func (c CacheConfig) NormalizedDriver() string {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	if driver == "" {
		return DriverFile
	}
	return driver
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	checks := []func() error{
		cfg.Cache.validate,
		cfg.Remote.validate,
		cfg.Highlight.validate,
		cfg.Markdown.validate,
		cfg.Logging.validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c CacheConfig) validate() error {
	if err := validation.Validate(c.NormalizedDriver(), validation.In(DriverFile, DriverSQLite)); err != nil {
		return invalid(ErrCacheDriverUnknown, c.Driver, err)
	}
	needsLocation := c.Enabled && (c.NormalizedDriver() == DriverFile || strings.TrimSpace(c.DSN) == "")
	if err := validation.Validate(strings.TrimSpace(c.Location), validation.When(needsLocation, validation.Required)); err != nil {
		return invalid(ErrCacheLocationRequired, c.Location, err)
	}
	return nil
}

func (r RemoteConfig) validate() error {
	for _, value := range []string{r.RawBaseURL, r.ScriptBaseURL} {
		if err := validation.Validate(strings.TrimSpace(value), validation.By(httpURL)); err != nil {
			return invalid(ErrRemoteURLInvalid, value, err)
		}
	}
	return nil
}

func (h HighlightConfig) validate() error {
	if err := validation.Validate(h.Style, validation.By(knownStyle)); err != nil {
		return invalid(ErrHighlightStyleUnknown, h.Style, err)
	}
	if err := validation.Validate(h.TabWidth, validation.Min(0)); err != nil {
		return invalid(ErrHighlightTabWidthInvalid, fmt.Sprint(h.TabWidth), err)
	}
	return nil
}

func (m MarkdownConfig) validate() error {
	if err := validation.Validate(m.Pattern, validation.By(globPattern)); err != nil {
		return invalid(ErrMarkdownPatternInvalid, m.Pattern, err)
	}
	return nil
}

func (l LoggingConfig) validate() error {
	provider := strings.ToLower(strings.TrimSpace(l.Provider))
	if err := validation.Validate(provider, validation.In("console", "gologger")); err != nil {
		return invalid(ErrLoggingProviderUnknown, l.Provider, err)
	}
	level := strings.ToLower(strings.TrimSpace(l.Level))
	if err := validation.Validate(level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")); err != nil {
		return invalid(ErrLoggingLevelInvalid, l.Level, err)
	}
	if provider == "gologger" {
		format := strings.ToLower(strings.TrimSpace(l.Format))
		if err := validation.Validate(format, validation.In("json", "console", "pretty")); err != nil {
			return invalid(ErrLoggingFormatInvalid, l.Format, err)
		}
	}
	return nil
}

func httpURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("gist.config.url_unparseable", err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validation.NewError("gist.config.url_scheme", "must use http or https")
	}
	if parsed.Host == "" {
		return validation.NewError("gist.config.url_host", "must include a host")
	}
	return nil
}

func knownStyle(value any) error {
	name, _ := value.(string)
	if _, ok := highlight.ResolveStyle(name); !ok {
		return validation.NewError("gist.config.style_unknown", "is not a registered chroma style")
	}
	return nil
}

func globPattern(value any) error {
	pattern, _ := value.(string)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return validation.NewError("gist.config.pattern_invalid", err.Error())
	}
	return nil
}

func invalid(kind error, value string, cause error) error {
	err := goerrors.New(fmt.Sprintf("%s: %q", kind.Error(), value), goerrors.CategoryValidation).
		WithTextCode(TextCodeConfig)
	err.Source = fmt.Errorf("%w: %w", kind, cause)
	return err
}
