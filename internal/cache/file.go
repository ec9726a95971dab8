package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-gist/internal/cachekey"
	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/internal/logging"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// FileStore keeps one file per gist ref under a base directory.
type FileStore struct {
	baseDir string
	logger  interfaces.Logger
}

// Option configures a store.
type Option func(*options)

type options struct {
	logger interfaces.Logger
}

// WithLogger attaches a logger to the store.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func resolve(opts []Option) options {
	o := options{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewFileStore returns a store rooted at baseDir. The directory is not
// created; call EnsureDir during setup.
func NewFileStore(baseDir string, opts ...Option) *FileStore {
	o := resolve(opts)
	return &FileStore{baseDir: baseDir, logger: o.logger}
}

var _ interfaces.CacheStore = (*FileStore)(nil)

// BaseDir returns the directory entries are written to.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// EnsureDir creates the base directory and any missing parents.
func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.baseDir, dirPerm); err != nil {
		return gisterrors.Storage(err, fmt.Sprintf("create cache directory %s", s.baseDir))
	}
	return nil
}

// Get reads the entry for ref. A missing file is reported as not found.
func (s *FileStore) Get(_ context.Context, ref interfaces.Ref) (string, bool, error) {
	path := cachekey.Path(s.baseDir, ref)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, gisterrors.Storage(err, fmt.Sprintf("read cache entry %s", path))
	}
	return string(data), true, nil
}

// Set writes body for ref through a temp file renamed into place.
func (s *FileStore) Set(_ context.Context, ref interfaces.Ref, body string) error {
	path := cachekey.Path(s.baseDir, ref)
	if err := atomicWrite(path, []byte(body)); err != nil {
		return gisterrors.Storage(err, fmt.Sprintf("write cache entry %s", path))
	}
	logging.WithFields(s.logger, map[string]any{
		"path":  path,
		"bytes": len(body),
	}).Debug("gist.cache.file_written")
	return nil
}

func atomicWrite(path string, contents []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(contents); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, filePerm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
