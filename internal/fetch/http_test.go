package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-gist/internal/endpoints"
	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

func strPtr(s string) *string { return &s }

type gistServer struct {
	mu       sync.Mutex
	paths    []string
	agents   []string
	status   int
	body     string
	response map[string]string
}

func (g *gistServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.paths = append(g.paths, r.URL.EscapedPath())
	g.agents = append(g.agents, r.Header.Get("User-Agent"))
	g.mu.Unlock()

	if g.status != 0 && g.status != http.StatusOK {
		w.WriteHeader(g.status)
		return
	}
	if body, ok := g.response[r.URL.Path]; ok {
		_, _ = w.Write([]byte(body))
		return
	}
	_, _ = w.Write([]byte(g.body))
}

func newFetcher(t *testing.T, handler http.Handler, opts ...Option) *HTTPFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{
		WithClient(srv.Client()),
		WithEndpoints(endpoints.Endpoints{RawBaseURL: srv.URL + "/raw"}),
	}, opts...)
	return NewHTTPFetcher(opts...)
}

func TestFetchReturnsBodyOn200(t *testing.T) {
	srv := &gistServer{response: map[string]string{
		"/raw/3254906":                         "whole gist",
		"/raw/3254906/brew-update-notifier.sh": "#!/bin/sh\necho ok ✓\n",
	}}
	fetcher := newFetcher(t, srv, WithUserAgent("go-gist/test"))

	got, err := fetcher.Fetch(context.Background(), interfaces.Ref{ID: "3254906", File: strPtr("brew-update-notifier.sh")})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got != "#!/bin/sh\necho ok ✓\n" {
		t.Fatalf("unexpected body %q", got)
	}

	got, err = fetcher.Fetch(context.Background(), interfaces.Ref{ID: "3254906"})
	if err != nil || got != "whole gist" {
		t.Fatalf("expected whole gist body, got %q (%v)", got, err)
	}

	if srv.agents[0] != "go-gist/test" {
		t.Fatalf("expected user agent header, got %q", srv.agents[0])
	}
}

func TestFetchRejectsNonSuccessStatus(t *testing.T) {
	fetcher := newFetcher(t, &gistServer{status: http.StatusNotFound})

	_, err := fetcher.Fetch(context.Background(), interfaces.Ref{ID: "deadbeef"})
	if !gisterrors.IsRetrieval(err) {
		t.Fatalf("expected retrieval error, got %v", err)
	}

	var gerr *goerrors.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected go-errors value, got %T", err)
	}
	if gerr.Metadata["status"] != http.StatusNotFound {
		t.Fatalf("expected status metadata 404, got %v", gerr.Metadata["status"])
	}
}

func TestFetchRejectsEmptyBody(t *testing.T) {
	fetcher := newFetcher(t, &gistServer{})

	_, err := fetcher.Fetch(context.Background(), interfaces.Ref{ID: "deadbeef"})
	if !gisterrors.IsRetrieval(err) {
		t.Fatalf("expected retrieval error for empty body, got %v", err)
	}
}

func TestFetchWrapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	fetcher := NewHTTPFetcher(WithEndpoints(endpoints.Endpoints{RawBaseURL: base}))
	_, err := fetcher.Fetch(context.Background(), interfaces.Ref{ID: "1"})
	if !gisterrors.IsRetrieval(err) {
		t.Fatalf("expected retrieval error for closed server, got %v", err)
	}
}

func TestFetchIssuesSingleRequest(t *testing.T) {
	srv := &gistServer{status: http.StatusInternalServerError}
	fetcher := newFetcher(t, srv)

	_, _ = fetcher.Fetch(context.Background(), interfaces.Ref{ID: "1"})

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.paths) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(srv.paths))
	}
}
