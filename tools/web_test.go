package tools_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petasbytes/nanocode/tools"
)

const searchPage = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&rut=x">The Go <b>Programming</b> Language</a>
  <a class="result__snippet" href="#">Documentation for Go.</a>
</div>
<div class="result">
  <a class="result__a" href="https://pkg.go.dev/">Go Packages</a>
</div>
<div class="result">
  <a class="result__a" href="https://go.dev/blog">Blog</a>
  <div class="result__snippet">Posts.</div>
</div>
</body></html>`

func webRegistry(t *testing.T, h http.HandlerFunc) (*tools.Registry, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	reg, err := tools.Default(tools.Options{Root: sharedDir, SearchURL: srv.URL + "/html/"})
	if err != nil {
		t.Fatalf("default tools: %v", err)
	}
	return reg, srv
}

func TestWebSearch_ParsesResults(t *testing.T) {
	var gotQuery string
	reg, _ := webRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, searchPage)
	})

	got := reg.Dispatch(context.Background(), "web_search", tools.Args{"query": "golang docs", "max_results": float64(2)})
	want := "1. The Go Programming Language\n   https://go.dev/doc/\n   Documentation for Go.\n\n2. Go Packages\n   https://pkg.go.dev/"
	if got != want {
		t.Fatalf("web_search =\n%q\nwant\n%q", got, want)
	}
	if gotQuery != "golang docs" {
		t.Errorf("query sent = %q", gotQuery)
	}
}

func TestWebSearch_NoResultsAndErrors(t *testing.T) {
	reg, _ := webRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "fail" {
			http.Error(w, "blocked", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, "<html><body>No results.</body></html>")
	})
	ctx := context.Background()

	if got := reg.Dispatch(ctx, "web_search", tools.Args{"query": "zzz"}); got != "none" {
		t.Errorf("empty search = %q", got)
	}
	if got := reg.Dispatch(ctx, "web_search", tools.Args{"query": "fail"}); !strings.Contains(got, "status 403") {
		t.Errorf("blocked search = %q", got)
	}
	if got := reg.Dispatch(ctx, "web_search", tools.Args{"query": "  "}); !tools.IsErrorResult(got) {
		t.Errorf("blank query = %q", got)
	}
}

func TestReadPage_ExtractsText(t *testing.T) {
	reg, srv := webRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, `<html><head><title>T</title><style>p{}</style></head>
<body><script>var x = 1;</script><h1>Heading</h1><p>First <b>para</b>.</p><p>Second.</p></body></html>`)
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "  just <text>  ")
		case "/big":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, strings.Repeat("é", 25000))
		case "/blank":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><script>x()</script></body></html>")
		}
	})
	ctx := context.Background()

	got := reg.Dispatch(ctx, "read_page", tools.Args{"url": srv.URL + "/page"})
	for _, want := range []string{"Heading", "First para.", "Second."} {
		if !strings.Contains(got, want) {
			t.Errorf("page text missing %q:\n%s", want, got)
		}
	}
	for _, banned := range []string{"var x", "p{}"} {
		if strings.Contains(got, banned) {
			t.Errorf("page text contains %q:\n%s", banned, got)
		}
	}
	if strings.Index(got, "Heading") > strings.Index(got, "First") || !strings.Contains(got, "\n") {
		t.Errorf("block structure lost:\n%s", got)
	}

	if got := reg.Dispatch(ctx, "read_page", tools.Args{"url": srv.URL + "/plain"}); got != "just <text>" {
		t.Errorf("plain text = %q", got)
	}

	big := reg.Dispatch(ctx, "read_page", tools.Args{"url": srv.URL + "/big"})
	if !strings.HasSuffix(big, "\n-- truncated --") || len([]rune(big)) != 20000+len("\n-- truncated --") {
		t.Errorf("truncation wrong: %d runes", len([]rune(big)))
	}

	if got := reg.Dispatch(ctx, "read_page", tools.Args{"url": srv.URL + "/blank"}); got != "(empty)" {
		t.Errorf("blank page = %q", got)
	}
}

func TestReadPage_RejectsOtherSchemes(t *testing.T) {
	if got := call("read_page", tools.Args{"url": "file:///etc/passwd"}); !strings.HasPrefix(got, "error: unsupported url scheme") {
		t.Fatalf("read_page = %q", got)
	}
}
