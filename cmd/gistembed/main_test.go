package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/goliatone/go-gist"
)

func TestRunRendersArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/raw/3254906" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("echo from gist"))
	}))
	defer srv.Close()

	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	outputDir := filepath.Join(root, "out")
	writeFile(t, filepath.Join(contentDir, "hello.md"), "---\ntitle: Hello\n---\n[gist:id=3254906]\n")
	writeFile(t, filepath.Join(contentDir, "notes", "later.md"), "No gists here.\n")

	configPath := filepath.Join(root, "gist.toml")
	writeFile(t, configPath, fmt.Sprintf("[remote]\nraw_base_url = %q\n\n[logging]\nlevel = \"error\"\n", srv.URL+"/raw"))

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-config", configPath,
		"-content-dir", contentDir,
		"-output-dir", outputDir,
		"-cache-dir", filepath.Join(root, "cache"),
	}, &stdout)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	hello, err := os.ReadFile(filepath.Join(outputDir, "hello.html"))
	if err != nil {
		t.Fatalf("expected hello.html: %v", err)
	}
	if !strings.Contains(string(hello), "<pre><code>echo from gist</code></pre>") {
		t.Fatalf("expected gist body in output, got:\n%s", hello)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "notes", "later.html")); err != nil {
		t.Fatalf("expected nested article output: %v", err)
	}
	if !strings.Contains(stdout.String(), "rendered 2 article(s)") {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	if entries, _ := os.ReadDir(filepath.Join(root, "cache")); len(entries) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(entries))
	}
}

func TestRunPropagatesRetrievalErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	writeFile(t, filepath.Join(contentDir, "broken.md"), "[gist:id=1]\n")

	original := moduleBuilder
	defer func() { moduleBuilder = original }()
	moduleBuilder = func(cfg gist.Config) (*gist.Module, error) {
		cfg.Remote.RawBaseURL = srv.URL + "/raw"
		cfg.Logging.Level = "error"
		return gist.New(cfg)
	}

	err := run(context.Background(), []string{
		"-content-dir", contentDir,
		"-output-dir", filepath.Join(root, "out"),
		"-no-cache",
	}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "replace gist tags") {
		t.Fatalf("expected replace error, got %v", err)
	}
}

func TestParseFlagsOverridesOnlySetFlags(t *testing.T) {
	cfg, opts, err := parseFlags([]string{"-no-cache", "-style", "monokai", "-line-numbers", "-watch"})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache disabled")
	}
	if cfg.Highlight.Style != "monokai" || !cfg.Highlight.LineNumbers {
		t.Fatalf("unexpected highlight config %+v", cfg.Highlight)
	}
	if cfg.Cache.Location != gist.DefaultConfig().Cache.Location {
		t.Fatalf("expected default cache location, got %q", cfg.Cache.Location)
	}
	if !opts.watch || opts.outputDir != "output" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestParseFlagsRejectsUnknownStyle(t *testing.T) {
	if _, _, err := parseFlags([]string{"-style", "nope"}); err == nil {
		t.Fatal("expected validation error for unknown style")
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	ignore := goleak.IgnoreCurrent()

	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	writeFile(t, filepath.Join(contentDir, "drafts", "plain.md"), "No gists here.\n")

	cfg := gist.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Logging.Level = "error"
	module, err := gist.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer module.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	b := &builder{module: module, contentDir: contentDir, outputDir: filepath.Join(root, "out"), stdout: &stdout}
	if err := b.watch(ctx); err != nil {
		t.Fatalf("watch returned error: %v", err)
	}
	if !strings.Contains(stdout.String(), "watching "+contentDir) {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	goleak.VerifyNone(t, ignore)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
