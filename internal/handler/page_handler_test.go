package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/secondlook/internal/model"
)

// newPageRouter はPageHandlerのルートだけを持つルーターを返す。
func newPageRouter(reader ContentReader) http.Handler {
	h := NewPageHandler(reader, newTestSiteRenderer(), "https://secondlook.ai")
	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/blog", h.Blog)
	r.Get("/blog/{slug}", h.Post(model.CategoryArticle))
	r.Get("/compare/{slug}", h.Post(model.CategoryComparison))
	r.Get("/faq/{slug}", h.Post(model.CategoryFAQ))
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)
	r.NotFound(h.NotFound)
	return r
}

func TestHome_ShowsFormAndLatestPosts(t *testing.T) {
	w := serve(newPageRouter(newSampleReader()), http.MethodGet, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	html := w.Body.String()
	if !strings.Contains(html, `action="/api/signup"`) {
		t.Error("home should contain the signup form")
	}
	if !strings.Contains(html, `href="/blog/newer"`) {
		t.Error("home should link the latest article")
	}
}

func TestBlog_ListsArticles(t *testing.T) {
	w := serve(newPageRouter(newSampleReader()), http.MethodGet, "/blog")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	html := w.Body.String()
	for _, want := range []string{"<title>Blog - SecondLook</title>", "June 1, 2024", `href="/blog/undated"`} {
		if !strings.Contains(html, want) {
			t.Errorf("blog page should contain %q", want)
		}
	}
}

func TestBlog_EmptyState(t *testing.T) {
	w := serve(newPageRouter(&mockContentReader{}), http.MethodGet, "/blog")

	if !strings.Contains(w.Body.String(), "No articles yet") {
		t.Error("empty blog should show the empty-state text")
	}
}

func TestPost_RendersArticle(t *testing.T) {
	w := serve(newPageRouter(newSampleReader()), http.MethodGet, "/blog/newer")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	html := w.Body.String()
	for _, want := range []string{
		"<title>Newer - SecondLook</title>",
		`<meta name="description" content="newer post">`,
		`<meta name="keywords" content="a, b">`,
		`"headline":"Newer"`,
		`"mainEntityOfPage":"https://secondlook.ai/blog/newer"`,
		"<p>newer body</p>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("post page should contain %q", want)
		}
	}
}

func TestPost_ComparisonRoute(t *testing.T) {
	w := serve(newPageRouter(newSampleReader()), http.MethodGet, "/compare/vs-x")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Us vs X - SecondLook") {
		t.Error("comparison title missing")
	}
}

func TestPost_MissingShows404Page(t *testing.T) {
	tests := []string{"/blog/missing", "/faq/missing", "/compare/newer", "/no/such/page"}

	for _, path := range tests {
		w := serve(newPageRouter(newSampleReader()), http.MethodGet, path)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Page not found") {
			t.Errorf("%s: should render the 404 page", path)
		}
	}
}

func TestRobots(t *testing.T) {
	w := serve(newPageRouter(newSampleReader()), http.MethodGet, "/robots.txt")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Sitemap: https://secondlook.ai/sitemap.xml") {
		t.Errorf("body = %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSitemap_IncludesAllCategories(t *testing.T) {
	w := serve(newPageRouter(newSampleReader()), http.MethodGet, "/sitemap.xml")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"<loc>https://secondlook.ai/</loc>",
		"<loc>https://secondlook.ai/blog/newer</loc>",
		"<lastmod>2024-06-01</lastmod>",
		"<loc>https://secondlook.ai/blog/undated</loc>",
		"<loc>https://secondlook.ai/compare/vs-x</loc>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap should contain %q", want)
		}
	}
}
