package handler

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/secondlook/internal/metrics"
	"github.com/hitoshi/secondlook/internal/middleware"
	"github.com/hitoshi/secondlook/internal/model"
	"github.com/hitoshi/secondlook/internal/site"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	TrustedProxies    []netip.Prefix

	// 運用
	HealthChecker  HealthChecker
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler

	// 登録
	SignupService SignupServiceInterface

	// コンテンツ
	Content  ContentReader
	Renderer *site.Renderer
	BaseURL  string

	// ContentReportEnabled が真の場合のみ /api/content/report を公開する
	ContentReportEnabled bool
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP（信頼済みプロキシのみ） → RequestID → Logging → Recovery → Metrics → SecurityHeaders → CORS
//
// メール登録のみ、さらにクライアントIP単位のレート制限を通す。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRealIPMiddleware(deps.TrustedProxies))
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	signupHandler := NewSignupHandler(deps.SignupService, deps.Metrics)
	contentHandler := NewContentHandler(deps.Content)
	pageHandler := NewPageHandler(deps.Content, deps.Renderer, deps.BaseURL)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	// --- 運用 ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- API ---
	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.With(deps.RateLimiter.SignupMiddleware()).Post("/signup", signupHandler.Signup)
		} else {
			r.Post("/signup", signupHandler.Signup)
		}

		r.Route("/content", func(r chi.Router) {
			if deps.ContentReportEnabled {
				r.Get("/report", contentHandler.Report)
			}
			r.Get("/{category}", contentHandler.ListPosts)
			r.Get("/{category}/{slug}", contentHandler.GetPost)
		})
	})

	// --- ページ ---
	r.Get("/", pageHandler.Home)
	r.Get("/blog", pageHandler.Blog)
	r.Get("/blog/{slug}", pageHandler.Post(model.CategoryArticle))
	r.Get("/compare/{slug}", pageHandler.Post(model.CategoryComparison))
	r.Get("/faq/{slug}", pageHandler.Post(model.CategoryFAQ))
	r.Get("/robots.txt", pageHandler.Robots)
	r.Get("/sitemap.xml", pageHandler.Sitemap)

	r.NotFound(pageHandler.NotFound)

	return r
}
