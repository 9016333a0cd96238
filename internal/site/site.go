// Package site はHTMLページ、サイトマップ、robots.txtの生成を提供する。
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/hitoshi/secondlook/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page は描画するページの種類。
type Page string

const (
	PageHome     Page = "home"
	PageList     Page = "list"
	PagePost     Page = "post"
	PageNotFound Page = "notfound"
)

// displayDateLayout はページ上の日付表記。
const displayDateLayout = "January 2, 2006"

// PostSummary は一覧表示用の記事情報。
type PostSummary struct {
	Title       string
	Description string
	URL         string
	Date        *time.Time
}

// PostView は記事ページ用の情報。
type PostView struct {
	Title          string
	Date           *time.Time
	Body           template.HTML
	ReadingMinutes int
}

// PageData はテンプレートに渡す値。SiteName、BaseURL、YearはRenderが設定する。
type PageData struct {
	SiteName    string
	BaseURL     string
	Year        int
	Path        string
	Title       string
	Description string
	Keywords    []string
	Heading     string
	Posts       []PostSummary
	Post        *PostView

	// StructuredData はJSON-LDとして埋め込む値。nilの場合は出力しない。
	StructuredData map[string]any
}

// Renderer は埋め込みテンプレートからHTMLページを描画する。
type Renderer struct {
	pages    map[Page]*template.Template
	siteName string
	baseURL  string
	now      func() time.Time
}

// NewRenderer はテンプレートを解析してRendererを生成する。
func NewRenderer(siteName, baseURL string) (*Renderer, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(displayDateLayout)
		},
		"isoDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(time.DateOnly)
		},
	}

	r := &Renderer{
		pages:    make(map[Page]*template.Template),
		siteName: siteName,
		baseURL:  baseURL,
		now:      time.Now,
	}

	for _, page := range []Page{PageHome, PageList, PagePost, PageNotFound} {
		tmpl, err := template.New(string(page)).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+string(page)+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	return r, nil
}

// SiteName はサイト名を返す。
func (r *Renderer) SiteName() string {
	return r.siteName
}

// Render はpageをwに描画する。
func (r *Renderer) Render(w io.Writer, page Page, data PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	data.SiteName = r.siteName
	data.BaseURL = r.baseURL
	data.Year = r.now().Year()

	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("execute template %s: %w", page, err)
	}
	return nil
}

// PostPath は記事の公開URLパスを返す。
func PostPath(category model.Category, slug string) string {
	switch category {
	case model.CategoryComparison:
		return "/compare/" + slug
	case model.CategoryFAQ:
		return "/faq/" + slug
	default:
		return "/blog/" + slug
	}
}

// Summaries は記事一覧を表示用に変換する。
func Summaries(posts []*model.Post) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostSummary{
			Title:       p.Title,
			Description: p.Description,
			URL:         PostPath(p.Category, p.Slug),
			Date:        p.PublishedDate,
		})
	}
	return out
}

// NewPostView は記事ページ用の値を返す。
// Bodyはコンテンツ読み込み時にサニタイズ済みのため、そのままHTMLとして埋め込む。
func NewPostView(post *model.Post) *PostView {
	return &PostView{
		Title:          post.Title,
		Date:           post.PublishedDate,
		Body:           template.HTML(post.Body),
		ReadingMinutes: post.ReadingMinutes,
	}
}

// ArticleSchema は記事ページに埋め込むschema.orgのArticleを返す。
func ArticleSchema(post *model.Post, siteName, pageURL string) map[string]any {
	org := map[string]any{"@type": "Organization", "name": siteName}
	schema := map[string]any{
		"@context":         "https://schema.org",
		"@type":            "Article",
		"headline":         post.Title,
		"description":      post.Description,
		"author":           org,
		"publisher":        org,
		"mainEntityOfPage": pageURL,
	}
	if post.PublishedDate != nil {
		schema["datePublished"] = post.PublishedDate.Format(time.DateOnly)
	}
	if len(post.Keywords) > 0 {
		schema["keywords"] = strings.Join(post.Keywords, ", ")
	}
	return schema
}
