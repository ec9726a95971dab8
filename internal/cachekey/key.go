package cachekey

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

// Extension is appended to every derived key.
const Extension = ".cache"

// Derive returns the cache key for ref: the hex md5 of the id followed by the
// file name when one is present, plus Extension. The digest matches the one
// used by the pelican_gist plugin, so existing cache directories stay valid.
func Derive(ref interfaces.Ref) string {
	h := md5.New()
	h.Write([]byte(ref.ID))
	if ref.File != nil {
		h.Write([]byte(*ref.File))
	}
	return hex.EncodeToString(h.Sum(nil)) + Extension
}

// Path joins baseDir with the derived key for ref.
func Path(baseDir string, ref interfaces.Ref) string {
	return filepath.Join(baseDir, Derive(ref))
}
