package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by kind to prevent collisions across kinds.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ArticleUUID identifies an article by its path relative to the content root.
func ArticleUUID(path string) uuid.UUID {
	return UUID("go-gist:article:" + strings.TrimSpace(path))
}

// CacheEntryUUID identifies a cache row by its derived cache key.
func CacheEntryUUID(cacheKey string) uuid.UUID {
	return UUID("go-gist:cache_entry:" + strings.ToLower(strings.TrimSpace(cacheKey)))
}
