package gist

import "github.com/goliatone/go-gist/internal/gisterrors"

// Error kinds returned by resolution. Match them with errors.Is; the
// concrete values are *goerrors.Error carrying a category and text code.
var (
	ErrRetrieval = gisterrors.ErrRetrieval
	ErrRender    = gisterrors.ErrRender
	ErrStorage   = gisterrors.ErrStorage
)
