package gisterrors

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeRetrieval = "GIST_RETRIEVAL"
	TextCodeRender    = "GIST_RENDER"
	TextCodeStorage   = "GIST_STORAGE"
)

var (
	// ErrRetrieval marks a failed or empty remote response.
	ErrRetrieval = errors.New("gist: retrieval failed")
	// ErrRender marks an unsupported highlighting hint or a template failure.
	ErrRender = errors.New("gist: render failed")
	// ErrStorage marks a cache read or write failure.
	ErrStorage = errors.New("gist: storage failed")
)

// Retrieval builds a RetrievalError. cause may be nil.
func Retrieval(cause error, message string) *goerrors.Error {
	return build(ErrRetrieval, cause, goerrors.CategoryExternal, TextCodeRetrieval, message)
}

// Render builds a RenderError. cause may be nil.
func Render(cause error, message string) *goerrors.Error {
	return build(ErrRender, cause, goerrors.CategoryOperation, TextCodeRender, message)
}

// Storage builds a StorageError. cause may be nil.
func Storage(cause error, message string) *goerrors.Error {
	return build(ErrStorage, cause, goerrors.CategoryInternal, TextCodeStorage, message)
}

// IsRetrieval reports whether err is a RetrievalError.
func IsRetrieval(err error) bool { return errors.Is(err, ErrRetrieval) }

// IsRender reports whether err is a RenderError.
func IsRender(err error) bool { return errors.Is(err, ErrRender) }

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }

// goerrors.Wrap clones *goerrors.Error sources, which would drop the sentinel
// from the chain, so the source is attached directly.
func build(kind, cause error, category goerrors.Category, code, message string) *goerrors.Error {
	source := kind
	if cause != nil {
		source = fmt.Errorf("%w: %w", kind, cause)
	}
	err := goerrors.New(message, category).WithTextCode(code)
	err.Source = source
	return err
}
