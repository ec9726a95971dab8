package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-gist"
)

const debounceInterval = 200 * time.Millisecond

type builder struct {
	module     *gist.Module
	contentDir string
	outputDir  string
	stdout     io.Writer
}

// build renders every article, resolves its gist markers, and writes one
// <slug>.html per article.
func (b *builder) build(ctx context.Context) error {
	start := time.Now()

	articles, err := b.module.LoadArticles(ctx, b.contentDir)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}

	docs := make([]gist.Article, 0, len(articles))
	for _, article := range articles {
		docs = append(docs, article)
	}
	if err := b.module.ReplaceTags(ctx, docs, nil); err != nil {
		return fmt.Errorf("replace gist tags: %w", err)
	}

	for _, article := range articles {
		target := filepath.Join(b.outputDir, filepath.FromSlash(article.Slug)+".html")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := os.WriteFile(target, []byte(article.Content()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}

	b.module.Logger().Info("gist.cli.build_completed",
		"articles", len(articles),
		"output_dir", b.outputDir,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	fmt.Fprintf(b.stdout, "rendered %d article(s) into %s\n", len(articles), b.outputDir)
	return nil
}

// watch rebuilds after content changes settle, until ctx is cancelled.
// Build failures are logged and do not stop the loop.
func (b *builder) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, b.contentDir); err != nil {
		return err
	}

	triggers := make(chan struct{}, 1)
	group, groupctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-groupctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = addDirs(watcher, event.Name)
					}
				}
				if timer == nil {
					timer = time.NewTimer(debounceInterval)
				} else {
					timer.Reset(debounceInterval)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				select {
				case triggers <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				b.module.Logger().Warn("gist.cli.watch_error", "error", err)
			}
		}
	})

	group.Go(func() error {
		for {
			select {
			case <-groupctx.Done():
				return nil
			case <-triggers:
				if err := b.build(groupctx); err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					b.module.Logger().Error("gist.cli.rebuild_failed", "error", err)
				}
			}
		}
	})

	fmt.Fprintf(b.stdout, "watching %s for changes\n", b.contentDir)
	return group.Wait()
}

func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
