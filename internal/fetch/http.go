package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/goliatone/go-gist/internal/endpoints"
	"github.com/goliatone/go-gist/internal/gisterrors"
	"github.com/goliatone/go-gist/internal/logging"
	"github.com/goliatone/go-gist/pkg/interfaces"
)

// HTTPFetcher retrieves raw gist bodies with a single GET per call.
type HTTPFetcher struct {
	client    *http.Client
	endpoints endpoints.Endpoints
	userAgent string
	logger    interfaces.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient overrides the go-cleanhttp default client.
func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithEndpoints overrides the URL builder.
func WithEndpoints(e endpoints.Endpoints) Option {
	return func(f *HTTPFetcher) {
		f.endpoints = e
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(agent string) Option {
	return func(f *HTTPFetcher) {
		f.userAgent = agent
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(f *HTTPFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHTTPFetcher returns a fetcher pointed at the public gist endpoints.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    cleanhttp.DefaultClient(),
		endpoints: endpoints.Default(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ interfaces.Fetcher = (*HTTPFetcher)(nil)

// Fetch GETs the raw content for ref. Non-200 responses, empty bodies and
// transport failures are returned as retrieval errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref interfaces.Ref) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := f.endpoints.Raw(ref)
	logger := logging.WithFields(f.logger.WithContext(ctx), map[string]any{
		"gist_id": ref.ID,
		"url":     target,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", gisterrors.Retrieval(err, "build gist request")
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	logger.Debug("gist.fetch.request")
	resp, err := f.client.Do(req)
	if err != nil {
		logging.WithFields(logger, map[string]any{"error": err}).Error("gist.fetch.transport_failed")
		return "", gisterrors.Retrieval(err, fmt.Sprintf("fetch gist %s", ref.ID))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.WithFields(logger, map[string]any{"status": resp.StatusCode}).Error("gist.fetch.bad_status")
		return "", gisterrors.Retrieval(nil, fmt.Sprintf("got status %d looking up gist %s", resp.StatusCode, ref.ID)).
			WithMetadata(map[string]any{"status": resp.StatusCode, "url": target})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", gisterrors.Retrieval(err, fmt.Sprintf("read gist %s", ref.ID))
	}
	if len(body) == 0 {
		logger.Error("gist.fetch.empty_body")
		return "", gisterrors.Retrieval(nil, fmt.Sprintf("unable to get the contents of gist %s", ref.ID)).
			WithMetadata(map[string]any{"url": target})
	}

	logging.WithFields(logger, map[string]any{"bytes": len(body)}).Debug("gist.fetch.completed")
	return string(body), nil
}
