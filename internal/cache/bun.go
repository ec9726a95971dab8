package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-gist/internal/cachekey"
	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/internal/identity"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

// BunStore keeps gist bodies in a SQL table through bun.
type BunStore struct {
	db     *bun.DB
	logger interfaces.Logger
}

type entryModel struct {
	bun.BaseModel `bun:"table:gist_cache"`

	CacheKey  string    `bun:"cache_key,pk"`
	EntryID   uuid.UUID `bun:"entry_id,type:uuid,notnull"`
	GistID    string    `bun:"gist_id,notnull"`
	FileName  *string   `bun:"file_name"`
	Body      string    `bun:"body,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// OpenSQLite opens a sqlite database through mattn/go-sqlite3 and wraps it
// with bun.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, gisterrors.Storage(err, "open sqlite cache")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBunStore returns a store backed by db. Call CreateSchema before use.
func NewBunStore(db *bun.DB, opts ...Option) *BunStore {
	o := resolve(opts)
	return &BunStore{db: db, logger: o.logger}
}

var _ interfaces.CacheStore = (*BunStore)(nil)

// CreateSchema creates the gist_cache table when missing.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if s.db == nil {
		return gisterrors.Storage(nil, "bun cache store requires a database")
	}
	if _, err := s.db.NewCreateTable().Model((*entryModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return gisterrors.Storage(err, "create gist_cache table")
	}
	return nil
}

// Get loads the body for ref, reporting not found when no row exists.
func (s *BunStore) Get(ctx context.Context, ref interfaces.Ref) (string, bool, error) {
	if s.db == nil {
		return "", false, gisterrors.Storage(nil, "bun cache store requires a database")
	}
	key := cachekey.Derive(ref)

	var model entryModel
	err := s.db.NewSelect().Model(&model).Where("cache_key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, gisterrors.Storage(err, fmt.Sprintf("select cache entry %s", key))
	}
	return model.Body, true, nil
}

// Set upserts the body for ref.
func (s *BunStore) Set(ctx context.Context, ref interfaces.Ref, body string) error {
	if s.db == nil {
		return gisterrors.Storage(nil, "bun cache store requires a database")
	}
	key := cachekey.Derive(ref)
	model := entryModel{
		CacheKey:  key,
		EntryID:   identity.CacheEntryUUID(key),
		GistID:    ref.ID,
		FileName:  ref.File,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.NewInsert().
		Model(&model).
		On("CONFLICT (cache_key) DO UPDATE").
		Set("body = EXCLUDED.body").
		Exec(ctx)
	if err != nil {
		return gisterrors.Storage(err, fmt.Sprintf("upsert cache entry %s", model.CacheKey))
	}
	s.logger.Debug("gist.cache.row_written", "cache_key", model.CacheKey, "bytes", len(body))
	return nil
}

// Close releases the underlying database.
func (s *BunStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
