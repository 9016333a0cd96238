package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/secondlook/internal/middleware"
	"github.com/hitoshi/secondlook/internal/model"
	"github.com/hitoshi/secondlook/internal/site"
)

// homeLatestPosts はトップページに載せる最新記事の件数。
const homeLatestPosts = 3

// PageHandler はHTMLページとクローラー向けファイルのHTTPハンドラー。
type PageHandler struct {
	reader   ContentReader
	renderer *site.Renderer
	baseURL  string
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(reader ContentReader, renderer *site.Renderer, baseURL string) *PageHandler {
	return &PageHandler{
		reader:   reader,
		renderer: renderer,
		baseURL:  baseURL,
	}
}

// Home はトップページを表示する。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts := h.reader.ListPosts(model.CategoryArticle)
	if len(posts) > homeLatestPosts {
		posts = posts[:homeLatestPosts]
	}

	h.render(w, r, http.StatusOK, site.PageHome, site.PageData{
		Path:        "/",
		Description: "Validate your product idea against the market before you build it.",
		Posts:       site.Summaries(posts),
	})
}

// Blog は記事一覧ページを表示する。
// GET /blog
func (h *PageHandler) Blog(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, site.PageList, site.PageData{
		Path:    "/blog",
		Title:   "Blog",
		Heading: "Blog",
		Posts:   site.Summaries(h.reader.ListPosts(model.CategoryArticle)),
	})
}

// Post はカテゴリの記事ページを表示するハンドラーを返す。
// GET /blog/{slug}, /compare/{slug}, /faq/{slug}
func (h *PageHandler) Post(category model.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.reader.GetPost(category, chi.URLParam(r, "slug"))
		if !ok {
			h.NotFound(w, r)
			return
		}

		path := site.PostPath(post.Category, post.Slug)
		h.render(w, r, http.StatusOK, site.PagePost, site.PageData{
			Path:           path,
			Title:          post.Title,
			Description:    post.Description,
			Keywords:       post.Keywords,
			Post:           site.NewPostView(post),
			StructuredData: site.ArticleSchema(post, h.renderer.SiteName(), h.baseURL+path),
		})
	}
}

// NotFound は404ページを表示する。
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, site.PageNotFound, site.PageData{
		Path:  r.URL.Path,
		Title: "Page not found",
	})
}

// Robots はrobots.txtを返す。
// GET /robots.txt
func (h *PageHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(site.RobotsTxt(h.baseURL)))
}

// Sitemap は全カテゴリの記事を含むsitemap.xmlを返す。
// GET /sitemap.xml
func (h *PageHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	var posts []*model.Post
	for _, c := range model.Categories() {
		posts = append(posts, h.reader.ListPosts(c)...)
	}

	body, err := site.Sitemap(h.baseURL, posts)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// render はページをバッファに描画してからステータス付きで書き出す。
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page site.Page, data site.PageData) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		slog.ErrorContext(r.Context(), "failed to render page",
			slog.String("page", string(page)),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
