package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-gist"
)

var moduleBuilder = func(cfg gist.Config) (*gist.Module, error) {
	return gist.New(cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("gistembed: %v", err)
	}
}

type options struct {
	outputDir string
	watch     bool
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	if err := module.Setup(ctx); err != nil {
		return fmt.Errorf("setup cache: %w", err)
	}

	b := &builder{
		module:     module,
		contentDir: cfg.Markdown.ContentDir,
		outputDir:  opts.outputDir,
		stdout:     stdout,
	}
	if err := b.build(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return b.watch(ctx)
}

func parseFlags(args []string) (gist.Config, options, error) {
	fs := flag.NewFlagSet("gistembed", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a TOML or YAML config file")
	contentDir := fs.String("content-dir", "content", "Directory holding markdown articles")
	outputDir := fs.String("output-dir", "output", "Directory receiving rendered <slug>.html files")
	cacheDir := fs.String("cache-dir", "", "Directory for cached gist bodies")
	noCache := fs.Bool("no-cache", false, "Disable cache lookups and writes")
	style := fs.String("style", "", "Chroma style used for highlighted gists")
	lineNumbers := fs.Bool("line-numbers", false, "Render line numbers in highlighted gists")
	logLevel := fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	watch := fs.Bool("watch", false, "Rebuild when articles change until interrupted")

	if err := fs.Parse(args); err != nil {
		return gist.Config{}, options{}, err
	}

	cfg := gist.DefaultConfig()
	if *configPath != "" {
		loaded, err := gist.LoadConfig(*configPath)
		if err != nil {
			return gist.Config{}, options{}, err
		}
		cfg = loaded
	}

	// Only explicitly set flags override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "content-dir":
			cfg.Markdown.ContentDir = *contentDir
		case "cache-dir":
			cfg.Cache.Location = *cacheDir
		case "no-cache":
			cfg.Cache.Enabled = !*noCache
		case "style":
			cfg.Highlight.Style = *style
		case "line-numbers":
			cfg.Highlight.LineNumbers = *lineNumbers
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return gist.Config{}, options{}, err
	}

	return cfg, options{
		outputDir: *outputDir,
		watch:     *watch,
	}, nil
}
