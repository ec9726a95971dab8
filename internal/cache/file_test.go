package cache

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-gist/internal/cachekey"
	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

func strPtr(s string) *string { return &s }

var roundTripCases = []struct {
	name string
	ref  interfaces.Ref
	body string
}{
	{"ascii id only", interfaces.Ref{ID: "3254906"}, "#!/bin/sh\nbrew update\n"},
	{"file", interfaces.Ref{ID: "3254906", File: strPtr("brew-update-notifier.sh")}, "echo notifier"},
	{"unicode", interfaces.Ref{ID: "abcdef", File: strPtr("greeting.txt")}, "héllo wörld ✓ 日本語 🚀\n"},
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	for _, tc := range roundTripCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Set(ctx, tc.ref, tc.body); err != nil {
				t.Fatalf("Set returned error: %v", err)
			}
			got, found, err := store.Get(ctx, tc.ref)
			if err != nil || !found {
				t.Fatalf("Get returned found=%v err=%v", found, err)
			}
			if got != tc.body {
				t.Fatalf("expected %q, got %q", tc.body, got)
			}
		})
	}
}

func TestFileStoreGetMissingIsNotAnError(t *testing.T) {
	store := NewFileStore(t.TempDir())

	body, found, err := store.Get(context.Background(), interfaces.Ref{ID: "never"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if found || body != "" {
		t.Fatalf("expected absent entry, got found=%v body=%q", found, body)
	}
}

func TestFileStoreSetOverwritesAndUsesDerivedPath(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()
	ref := interfaces.Ref{ID: "42"}

	if err := store.Set(ctx, ref, "first"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, ref, "second"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, cachekey.Derive(ref)))
	if err != nil {
		t.Fatalf("expected cache file at derived path: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single cache file without temp leftovers, got %d", len(entries))
	}
}

func TestFileStoreEnsureDirCreatesParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "gist-cache")
	store := NewFileStore(dir)

	if err := store.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir returned error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory %s, got %v", dir, err)
	}
	if err := store.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir should be idempotent, got %v", err)
	}
}

func TestFileStoreSetWithoutDirectoryFails(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"))

	err := store.Set(context.Background(), interfaces.Ref{ID: "1"}, "body")
	if !gisterrors.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestFileStoreGetUnreadableEntryFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory entries are readable as files on windows")
	}
	dir := t.TempDir()
	ref := interfaces.Ref{ID: "1"}
	// A directory at the entry path cannot be read as a file.
	if err := os.Mkdir(cachekey.Path(dir, ref), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	_, _, err := NewFileStore(dir).Get(context.Background(), ref)
	if !gisterrors.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
