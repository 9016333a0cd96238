package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/secondlook/internal/content"
	"github.com/hitoshi/secondlook/internal/middleware"
	"github.com/hitoshi/secondlook/internal/model"
)

// ContentReader はコンテンツ系ハンドラーが必要とする読み取りインターフェース。
type ContentReader interface {
	ListPosts(category model.Category) []*model.Post
	GetPost(category model.Category, slug string) (*model.Post, bool)
	Report() content.Report
}

// ContentHandler はコンテンツJSON APIのHTTPハンドラー。
type ContentHandler struct {
	reader ContentReader
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(reader ContentReader) *ContentHandler {
	return &ContentHandler{reader: reader}
}

// postSummaryResponse は一覧用の記事情報。本文は含まない。
type postSummaryResponse struct {
	Slug           string   `json:"slug"`
	Category       string   `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PublishedDate  *string  `json:"publishedDate,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	ReadingMinutes int      `json:"readingMinutes"`
	Excerpt        string   `json:"excerpt"`
}

// postResponse は記事詳細のレスポンス。
type postResponse struct {
	postSummaryResponse
	Body string `json:"body"`
}

// listPostsResponse は記事一覧のレスポンス。
type listPostsResponse struct {
	Posts []postSummaryResponse `json:"posts"`
}

// ListPosts はカテゴリの記事一覧を返す。
// GET /api/content/{category}
func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	category, ok := model.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewUnknownCategoryError())
		return
	}

	posts := h.reader.ListPosts(category)
	resp := listPostsResponse{Posts: make([]postSummaryResponse, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, toPostSummaryResponse(p))
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// GetPost は記事1件を本文付きで返す。
// GET /api/content/{category}/{slug}
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	category, ok := model.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewUnknownCategoryError())
		return
	}

	post, ok := h.reader.GetPost(category, chi.URLParam(r, "slug"))
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewPostNotFoundError())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, postResponse{
		postSummaryResponse: toPostSummaryResponse(post),
		Body:                post.Body,
	})
}

// Report は全カテゴリのコンテンツ品質レポートを返す。
// GET /api/content/report
func (h *ContentHandler) Report(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.reader.Report())
}

func toPostSummaryResponse(p *model.Post) postSummaryResponse {
	resp := postSummaryResponse{
		Slug:           p.Slug,
		Category:       string(p.Category),
		Title:          p.Title,
		Description:    p.Description,
		Keywords:       p.Keywords,
		ReadingMinutes: p.ReadingMinutes,
		Excerpt:        p.Excerpt,
	}
	if p.PublishedDate != nil {
		d := p.PublishedDate.Format(time.DateOnly)
		resp.PublishedDate = &d
	}
	return resp
}
