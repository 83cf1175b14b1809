package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/bizscrape/internal/cache"
	"github.com/law-makers/bizscrape/internal/document"
	"github.com/law-makers/bizscrape/pkg/models"
)

const helloPage = `<!DOCTYPE html>
<html>
<head>
	<title>Hello World</title>
	<meta name="description" content="Test page">
</head>
<body>
	<h1>Hello World</h1>
	<p>This is a test page.</p>
	<a href="/link1">Link 1</a>
</body>
</html>`

func newStatic(t *testing.T, opts StaticOptions) *StaticFetcher {
	t.Helper()
	return NewStatic(&http.Client{}, opts)
}

func TestStaticFetch_BasicHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("unexpected user agent %q", ua)
		}
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("custom header not sent")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(helloPage))
	}))
	defer server.Close()

	page, err := newStatic(t, StaticOptions{}).Fetch(context.Background(), models.RequestOptions{
		URL:     server.URL,
		Headers: map[string]string{"X-Test": "yes"},
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", page.StatusCode)
	}
	if !strings.Contains(page.HTML, "Hello World") {
		t.Errorf("HTML missing content")
	}
	if page.Headers["Content-Type"] != "text/html" {
		t.Errorf("headers not captured: %v", page.Headers)
	}
}

func TestStaticFetch_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/empty":
			w.Write([]byte("   \n  "))
		case "/slow":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
			w.Write([]byte(helloPage))
		}
	}))
	defer server.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"not found", server.URL + "/missing", ErrHTTPStatus},
		{"empty body", server.URL + "/empty", ErrEmptyBody},
		{"timeout", server.URL + "/slow", ErrTimeout},
		{"connection refused", closedURL, ErrConnection},
		{"invalid url", "ftp://acme.io", ErrInvalidURL},
	}

	f := newStatic(t, StaticOptions{Timeout: 100 * time.Millisecond})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), models.RequestOptions{URL: tt.url})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	_, err := f.Fetch(context.Background(), models.RequestOptions{URL: server.URL + "/missing"})
	var fe *Error
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Errorf("expected status 404 on error, got %v", err)
	}
}

func TestStaticFetch_UsesCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(helloPage))
	}))
	defer server.Close()

	c := cache.NewPageCache(1 << 20)
	f := newStatic(t, StaticOptions{Cache: c, CacheTTL: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), models.RequestOptions{URL: server.URL}); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestLoader_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/home/", http.StatusFound)
			return
		}
		w.Write([]byte(helloPage))
	}))
	defer server.Close()

	loader := NewLoader(newStatic(t, StaticOptions{}), document.Options{})
	doc, page, err := loader.Load(context.Background(), models.RequestOptions{URL: server.URL + "/"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if page.FinalURL != server.URL+"/home/" {
		t.Errorf("FinalURL = %q", page.FinalURL)
	}
	if got, _ := doc.MetaContent("description"); got != "Test page" {
		t.Errorf("description = %q", got)
	}
	links := doc.Links()
	if len(links) != 1 || links[0].Href != server.URL+"/link1" {
		t.Errorf("links = %+v", links)
	}
}

type stubFetcher struct {
	page  *models.Page
	err   error
	calls int
}

func (s *stubFetcher) Name() string { return "stub" }

func (s *stubFetcher) Fetch(context.Context, models.RequestOptions) (*models.Page, error) {
	s.calls++
	return s.page, s.err
}

func TestAutoFetcher(t *testing.T) {
	shell := `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`
	full := `<html><body><div id="root"><p>Rendered</p></div></body></html>`

	t.Run("static page is kept", func(t *testing.T) {
		static := &stubFetcher{page: &models.Page{HTML: helloPage}}
		rendered := &stubFetcher{page: &models.Page{HTML: full}}
		page, err := NewAuto(static, rendered).Fetch(context.Background(), models.RequestOptions{URL: "https://acme.io"})
		if err != nil || page.HTML != helloPage || rendered.calls != 0 {
			t.Errorf("expected static page without rendering, got %v calls=%d", err, rendered.calls)
		}
	})

	t.Run("shell is rendered", func(t *testing.T) {
		static := &stubFetcher{page: &models.Page{HTML: shell}}
		rendered := &stubFetcher{page: &models.Page{HTML: full, Rendered: true}}
		page, err := NewAuto(static, rendered).Fetch(context.Background(), models.RequestOptions{URL: "https://acme.io"})
		if err != nil || !page.Rendered {
			t.Errorf("expected rendered page, got %v", err)
		}
	})

	t.Run("render failure falls back", func(t *testing.T) {
		static := &stubFetcher{page: &models.Page{HTML: shell}}
		rendered := &stubFetcher{err: errors.New("no chrome")}
		page, err := NewAuto(static, rendered).Fetch(context.Background(), models.RequestOptions{URL: "https://acme.io"})
		if err != nil || page.HTML != shell {
			t.Errorf("expected static fallback, got %v", err)
		}
	})

	t.Run("static failure is fatal", func(t *testing.T) {
		static := &stubFetcher{err: NewError(CodeTimeout, "https://acme.io", "slow", nil)}
		_, err := NewAuto(static, nil).Fetch(context.Background(), models.RequestOptions{URL: "https://acme.io"})
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("expected timeout, got %v", err)
		}
	})
}

func TestNeedsRendering(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"mount point", `<div id="app"></div><script src="a.js"></script>`, true},
		{"script shell", `<html><body><script>boot()</script></body></html>`, true},
		{"content page", helloPage, false},
		{"plain", `<html><body><div><div><div><p>Hi</p></div></div></div></body></html>`, false},
	}
	for _, tt := range tests {
		if got := NeedsRendering(tt.html); got != tt.want {
			t.Errorf("%s: NeedsRendering = %v, want %v", tt.name, got, tt.want)
		}
	}
	if DetectFramework(`<script id="__NEXT_DATA__"></script>`) != "Next.js" {
		t.Error("expected Next.js")
	}
}

func TestErrorMessages(t *testing.T) {
	err := NewError(CodeParse, "https://acme.io", "could not parse page", errors.New("bad"))
	if !strings.Contains(err.Error(), "PARSE") || !strings.Contains(err.Error(), "bad") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if errors.Is(err, ErrTimeout) || !errors.Is(err, ErrParse) {
		t.Error("errors.Is should compare codes")
	}
}
