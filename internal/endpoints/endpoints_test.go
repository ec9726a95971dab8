package endpoints

import (
	"testing"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

func strPtr(s string) *string { return &s }

func TestDefaultEndpoints(t *testing.T) {
	e := Default()
	idOnly := interfaces.Ref{ID: "3254906"}
	withFile := interfaces.Ref{ID: "3254906", File: strPtr("brew-update-notifier.sh")}

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"raw id", e.Raw(idOnly), "https://gist.githubusercontent.com/raw/3254906"},
		{"raw file", e.Raw(withFile), "https://gist.githubusercontent.com/raw/3254906/brew-update-notifier.sh"},
		{"script id", e.Script(idOnly), "https://gist.github.com/3254906.js"},
		{"script file", e.Script(withFile), "https://gist.github.com/3254906.js?file=brew-update-notifier.sh"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, tc.got)
		}
	}
}

func TestCustomBaseAndEscaping(t *testing.T) {
	e := Endpoints{RawBaseURL: "http://127.0.0.1:8080/raw/", ScriptBaseURL: ""}
	ref := interfaces.Ref{ID: "abc", File: strPtr("my file.go")}

	if got := e.Raw(ref); got != "http://127.0.0.1:8080/raw/abc/my%20file.go" {
		t.Fatalf("unexpected raw url %s", got)
	}
	if got := e.Script(ref); got != "https://gist.github.com/abc.js?file=my+file.go" {
		t.Fatalf("unexpected script url %s", got)
	}
}
