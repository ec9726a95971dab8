package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

const (
	rootModule     = "gist"
	resolverModule = "gist.resolver"
	cacheModule    = "gist.cache"
	fetchModule    = "gist.fetch"
	markdownModule = "gist.markdown"
)

const (
	fieldGistID   = "gist_id"
	fieldGistFile = "gist_file"
	fieldFileType = "filetype"
)

// ModuleLogger returns a logger scoped to module, falling back to NoOp when
// provider is nil. The module name is attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RootLogger returns the top level module logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// ResolverLogger returns the logger used by the substitution engine.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// CacheLogger returns the logger used by cache stores.
func CacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cacheModule)
}

// FetchLogger returns the logger used by the remote fetcher.
func FetchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fetchModule)
}

// MarkdownLogger returns the logger used when loading host articles.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithMarker attaches the gist id, file and filetype of a marker. Empty
// values are skipped.
func WithMarker(logger interfaces.Logger, marker interfaces.Marker) interfaces.Logger {
	fields := map[string]any{}
	if id := strings.TrimSpace(marker.ID); id != "" {
		fields[fieldGistID] = id
	}
	if file, ok := marker.FileName(); ok && file != "" {
		fields[fieldGistFile] = file
	}
	if lang, ok := marker.Language(); ok && lang != "" {
		fields[fieldFileType] = lang
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
