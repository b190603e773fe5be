package cli

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"railctl/internal/testutil"
)

func TestRawPostsFileBody(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "body.json", `{"name":"Imports"}`)
	rawData = "@" + path
	defer func() { rawData = "" }()

	app, buf := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST once a body is given", r.Method)
		}
		if got := requestEndpoint(r); got != "add_section/1" {
			t.Errorf("endpoint = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"Imports"}` {
			t.Errorf("body = %q", body)
		}
		w.Write([]byte(`{"id":10,"name":"Imports"}`))
	})

	if err := runRaw(app, testCmd(buf), []string{"add_section/1"}); err != nil {
		t.Fatalf("runRaw() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"Imports"`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRawSendsParams(t *testing.T) {
	rawParams = []string{"suite_id=3", "priority_id=4"}
	defer func() { rawParams = nil }()

	app, buf := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		q := r.URL.Query()
		if q.Get("suite_id") != "3" || q.Get("priority_id") != "4" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Write([]byte(`[]`))
	})

	if err := runRaw(app, testCmd(buf), []string{"get_cases/1"}); err != nil {
		t.Fatalf("runRaw() error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("output = %q", buf.String())
	}
}
