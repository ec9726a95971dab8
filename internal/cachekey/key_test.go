package cachekey

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

func strPtr(s string) *string { return &s }

func TestDeriveDistinguishesFile(t *testing.T) {
	idOnly := Derive(interfaces.Ref{ID: "3254906"})
	withFile := Derive(interfaces.Ref{ID: "3254906", File: strPtr("brew-update-notifier.sh")})
	withEmpty := Derive(interfaces.Ref{ID: "3254906", File: strPtr("")})

	if idOnly == withFile {
		t.Fatalf("expected id-only and id+file keys to differ, both %s", idOnly)
	}
	if withFile == withEmpty {
		t.Fatalf("expected different files to yield different keys")
	}
	// An empty file name adds no bytes to the digest.
	if idOnly != withEmpty {
		t.Fatalf("expected empty file to hash like an absent one, got %s and %s", idOnly, withEmpty)
	}
}

func TestDeriveMatchesPelicanDigest(t *testing.T) {
	cases := []struct {
		name string
		ref  interfaces.Ref
		want string
	}{
		{
			name: "id only",
			ref:  interfaces.Ref{ID: "3254906"},
			want: "71f5f610a1b6b377deecbccd25e55c98.cache",
		},
		{
			name: "id and file",
			ref:  interfaces.Ref{ID: "3254906", File: strPtr("brew-update-notifier.sh")},
			want: "548787998aa49e3a1d0fa01f99153982.cache",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Derive(tc.ref)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if !strings.HasSuffix(got, Extension) {
				t.Fatalf("expected %s suffix on %s", Extension, got)
			}
		})
	}
}

func TestPathJoinsBaseDir(t *testing.T) {
	ref := interfaces.Ref{ID: "abc123"}
	got := Path("/tmp/gist-cache", ref)
	if got != filepath.Join("/tmp/gist-cache", Derive(ref)) {
		t.Fatalf("unexpected path %s", got)
	}
}
