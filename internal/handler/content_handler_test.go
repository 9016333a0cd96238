package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/secondlook/internal/content"
	"github.com/hitoshi/secondlook/internal/model"
)

// newContentRouter はContentHandlerのルートだけを持つルーターを返す。
func newContentRouter(reader ContentReader) http.Handler {
	h := NewContentHandler(reader)
	r := chi.NewRouter()
	r.Get("/api/content/report", h.Report)
	r.Get("/api/content/{category}", h.ListPosts)
	r.Get("/api/content/{category}/{slug}", h.GetPost)
	return r
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestListPosts_ReturnsSummariesInOrder(t *testing.T) {
	w := serve(newContentRouter(newSampleReader()), http.MethodGet, "/api/content/article")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Posts []map[string]any `json:"posts"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(body.Posts))
	}

	first := body.Posts[0]
	if first["slug"] != "newer" || first["publishedDate"] != "2024-06-01" {
		t.Errorf("first = %v", first)
	}
	if _, ok := first["body"]; ok {
		t.Error("summary should not include body")
	}

	second := body.Posts[1]
	if _, ok := second["publishedDate"]; ok {
		t.Error("undated post should omit publishedDate")
	}
	if _, ok := second["keywords"]; ok {
		t.Error("post without keywords should omit keywords")
	}
}

func TestListPosts_AcceptsAliases(t *testing.T) {
	for _, alias := range []string{"blog", "article", "compare", "comparison", "faq"} {
		w := serve(newContentRouter(newSampleReader()), http.MethodGet, "/api/content/"+alias)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", alias, w.Code)
		}
	}
}

func TestListPosts_EmptyCategoryIsEmptyArray(t *testing.T) {
	w := serve(newContentRouter(newSampleReader()), http.MethodGet, "/api/content/faq")

	if got := strings.TrimSpace(w.Body.String()); got != `{"posts":[]}` {
		t.Errorf("body = %s, want {\"posts\":[]}", got)
	}
}

func TestListPosts_UnknownCategory(t *testing.T) {
	w := serve(newContentRouter(newSampleReader()), http.MethodGet, "/api/content/news")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Unknown content category"}` {
		t.Errorf("body = %s", got)
	}
}

func TestGetPost_Found(t *testing.T) {
	w := serve(newContentRouter(newSampleReader()), http.MethodGet, "/api/content/blog/newer")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["body"] != "<p>newer body</p>" {
		t.Errorf("body = %v", body["body"])
	}
	if body["category"] != string(model.CategoryArticle) {
		t.Errorf("category = %v", body["category"])
	}
	if body["title"] != "Newer" {
		t.Errorf("title = %v", body["title"])
	}
}

func TestGetPost_NotFound(t *testing.T) {
	w := serve(newContentRouter(newSampleReader()), http.MethodGet, "/api/content/blog/missing")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Post not found"}` {
		t.Errorf("body = %s", got)
	}
}

func TestGetPost_UnknownCategory(t *testing.T) {
	w := serve(newContentRouter(newSampleReader()), http.MethodGet, "/api/content/news/newer")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Unknown content category"}` {
		t.Errorf("body = %s", got)
	}
}

func TestReport_ReturnsJSON(t *testing.T) {
	reader := &mockContentReader{reportFn: func() content.Report {
		return content.Report{Categories: []content.CategoryReport{
			{
				Category: model.CategoryArticle,
				Loaded:   1,
				Failed:   []content.FileIssue{{Slug: "broken", Message: "front-matter: bad"}},
				Warnings: []content.FileIssue{},
			},
		}}
	}}

	w := serve(newContentRouter(reader), http.MethodGet, "/api/content/report")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got content.Report
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Categories) != 1 || got.Categories[0].Failed[0].Slug != "broken" {
		t.Errorf("report = %+v", got)
	}
}
