package endpoints

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

const (
	DefaultRawBaseURL    = "https://gist.githubusercontent.com/raw"
	DefaultScriptBaseURL = "https://gist.github.com"
)

// Endpoints builds the raw-content and embed-script URLs for a gist.
type Endpoints struct {
	RawBaseURL    string
	ScriptBaseURL string
}

// Default returns the public GitHub endpoints.
func Default() Endpoints {
	return Endpoints{
		RawBaseURL:    DefaultRawBaseURL,
		ScriptBaseURL: DefaultScriptBaseURL,
	}
}

// Raw returns <raw base>/<id>[/<file>].
func (e Endpoints) Raw(ref interfaces.Ref) string {
	base := strings.TrimRight(orDefault(e.RawBaseURL, DefaultRawBaseURL), "/")
	out := base + "/" + url.PathEscape(ref.ID)
	if file, ok := ref.FileName(); ok {
		out += "/" + url.PathEscape(file)
	}
	return out
}

// Script returns <script base>/<id>.js[?file=<file>].
func (e Endpoints) Script(ref interfaces.Ref) string {
	base := strings.TrimRight(orDefault(e.ScriptBaseURL, DefaultScriptBaseURL), "/")
	out := base + "/" + url.PathEscape(ref.ID) + ".js"
	if file, ok := ref.FileName(); ok {
		out += "?" + url.Values{"file": {file}}.Encode()
	}
	return out
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
