package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-gist/internal/cache"
	"github.com/goliatone/go-gist/internal/logging/gologger"
	"github.com/goliatone/go-gist/internal/runtimeconfig"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	body  string
}

func (f *stubFetcher) Fetch(context.Context, interfaces.Ref) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.body, nil
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []string
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p}
}

type recordingLogger struct {
	provider *recordingProvider
}

func (l *recordingLogger) record(msg string) {
	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	l.provider.entries = append(l.provider.entries, msg)
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (p *recordingProvider) has(msg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, entry := range p.entries {
		if entry == msg {
			return true
		}
	}
	return false
}

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Location = filepath.Join(t.TempDir(), "nested", "cache")
	return cfg
}

func TestNewContainerDefaultsToFileStore(t *testing.T) {
	container, err := NewContainer(testConfig(t), WithLoggerProvider(&recordingProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.CacheStore().(*cache.FileStore); !ok {
		t.Fatalf("expected file store, got %T", container.CacheStore())
	}
	if container.Resolver() == nil {
		t.Fatal("expected resolver to be configured")
	}
}

func TestSetupCreatesCacheDirectory(t *testing.T) {
	cfg := testConfig(t)
	container, err := NewContainer(cfg, WithLoggerProvider(&recordingProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if err := container.Setup(context.Background()); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	info, err := os.Stat(cfg.Cache.Location)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected cache directory to exist, err=%v", err)
	}
}

func TestSetupCreatesDirectoryWhenCacheDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = false
	container, err := NewContainer(cfg, WithLoggerProvider(&recordingProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if err := container.Setup(context.Background()); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	info, err := os.Stat(cfg.Cache.Location)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected cache directory to exist with caching disabled, err=%v", err)
	}
}

func TestSetupSkipsBlankLocationWhenCacheDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = false
	cfg.Cache.Location = ""
	container, err := NewContainer(cfg, WithLoggerProvider(&recordingProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if err := container.Setup(context.Background()); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
}

func TestNewContainerBuildsSQLiteStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Driver = runtimeconfig.DriverSQLite
	cfg.Cache.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	fetcher := &stubFetcher{body: "echo hi"}
	container, err := NewContainer(cfg, WithFetcher(fetcher), WithLoggerProvider(&recordingProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if _, ok := container.CacheStore().(*cache.BunStore); !ok {
		t.Fatalf("expected bun store, got %T", container.CacheStore())
	}
	if err := container.Setup(context.Background()); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}

	for range 2 {
		if _, err := container.Resolver().Resolve(context.Background(), "<p>[gist:id=9]</p>", nil); err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected sqlite cache to absorb second fetch, got %d calls", fetcher.calls)
	}
}

func TestNewContainerUsesOverrides(t *testing.T) {
	fetcher := &stubFetcher{body: "body"}
	provider := &recordingProvider{}

	container, err := NewContainer(testConfig(t),
		WithFetcher(fetcher),
		WithCacheStore(cache.NewFileStore(t.TempDir())),
		WithLoggerProvider(provider),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	out, err := container.Resolver().Resolve(context.Background(), "<p>[gist:id=1]</p>", nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.Contains(out, "<pre><code>body</code></pre>") || !strings.Contains(out, "https://gist.github.com/1.js") {
		t.Fatalf("unexpected embed %q", out)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected override fetcher to be used, got %d calls", fetcher.calls)
	}
	if !provider.has("gist.container.configured") || !provider.has("gist.resolver.fetching") {
		t.Fatalf("expected container and resolver logs, got %v", provider.entries)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Highlight.Style = "no-such-style"

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrHighlightStyleUnknown) {
		t.Fatalf("expected ErrHighlightStyleUnknown, got %v", err)
	}
}

func TestNewContainerRejectsBrokenTemplate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embed.Template = "{{.code"

	if _, err := NewContainer(cfg, WithLoggerProvider(&recordingProvider{})); err == nil {
		t.Fatal("expected template parse error")
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if logger := provider.GetLogger("gist.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestMarkdownServiceUsesContentDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "post.md"), []byte("[gist:id=5]\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	container, err := NewContainer(testConfig(t), WithLoggerProvider(&recordingProvider{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	svc, err := container.MarkdownService(dir)
	if err != nil {
		t.Fatalf("MarkdownService returned error: %v", err)
	}
	articles, err := svc.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].Content() != "<p>[gist:id=5]</p>\n" {
		t.Fatalf("unexpected articles %+v", articles)
	}
}

func TestLoggerFallsBackToNoOp(t *testing.T) {
	var c Container
	if c.Logger() == nil {
		t.Fatal("expected no-op logger")
	}
}
