package handler

import (
	"context"
	"time"

	"github.com/hitoshi/secondlook/internal/content"
	"github.com/hitoshi/secondlook/internal/model"
	"github.com/hitoshi/secondlook/internal/site"
)

// --- モック定義 ---

// mockSignupService はSignupServiceInterfaceのモック実装。
type mockSignupService struct {
	registerFn func(ctx context.Context, email string) error
	calls      []string
}

func (m *mockSignupService) Register(ctx context.Context, email string) error {
	m.calls = append(m.calls, email)
	if m.registerFn != nil {
		return m.registerFn(ctx, email)
	}
	return nil
}

// mockContentReader はContentReaderのモック実装。
type mockContentReader struct {
	listPostsFn func(category model.Category) []*model.Post
	getPostFn   func(category model.Category, slug string) (*model.Post, bool)
	reportFn    func() content.Report
}

func (m *mockContentReader) ListPosts(category model.Category) []*model.Post {
	if m.listPostsFn != nil {
		return m.listPostsFn(category)
	}
	return []*model.Post{}
}

func (m *mockContentReader) GetPost(category model.Category, slug string) (*model.Post, bool) {
	if m.getPostFn != nil {
		return m.getPostFn(category, slug)
	}
	return nil, false
}

func (m *mockContentReader) Report() content.Report {
	if m.reportFn != nil {
		return m.reportFn()
	}
	return content.Report{}
}

// mockHealthChecker はHealthCheckerのモック実装。
type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// mockMetrics はmetrics.MetricsCollectorのモック実装。
type mockMetrics struct {
	signups  []string
	statuses []int
}

func (m *mockMetrics) RecordSignup(result string)                 { m.signups = append(m.signups, result) }
func (m *mockMetrics) RecordContentLoadFailure(category string)   {}
func (m *mockMetrics) RecordContentRender(duration time.Duration) {}
func (m *mockMetrics) RecordHTTPStatus(statusCode int)            { m.statuses = append(m.statuses, statusCode) }

// --- テストヘルパー ---

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// samplePosts はカテゴリごとのテスト用記事を返す。
func samplePosts() map[model.Category][]*model.Post {
	return map[model.Category][]*model.Post{
		model.CategoryArticle: {
			{
				Slug: "newer", Category: model.CategoryArticle, Title: "Newer", Description: "newer post",
				RawDate: strPtr("2024-06-01"), PublishedDate: datePtr(2024, time.June, 1),
				Body: "<p>newer body</p>", Keywords: []string{"a", "b"}, ReadingMinutes: 2, Excerpt: "newer body",
			},
			{
				Slug: "undated", Category: model.CategoryArticle, Title: "Undated", Description: "no date",
				Body: "<p>undated body</p>", ReadingMinutes: 1, Excerpt: "undated body",
			},
		},
		model.CategoryComparison: {
			{Slug: "vs-x", Category: model.CategoryComparison, Title: "Us vs X", Description: "cmp", Body: "<p>cmp</p>", ReadingMinutes: 1},
		},
		model.CategoryFAQ: {},
	}
}

// newSampleReader はsamplePostsを返すContentReaderを生成する。
func newSampleReader() *mockContentReader {
	posts := samplePosts()
	return &mockContentReader{
		listPostsFn: func(category model.Category) []*model.Post {
			return posts[category]
		},
		getPostFn: func(category model.Category, slug string) (*model.Post, bool) {
			for _, p := range posts[category] {
				if p.Slug == slug {
					return p, true
				}
			}
			return nil, false
		},
	}
}

func newTestSiteRenderer() *site.Renderer {
	r, err := site.NewRenderer("SecondLook", "https://secondlook.ai")
	if err != nil {
		panic(err)
	}
	return r
}
